package types

// Upload is a file received from a multipart form, not yet persisted.
type Upload struct {
	Name string
	Data []byte
}
