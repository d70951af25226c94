package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

const avatarSize = 256

// AvatarService renders an initials avatar for users who sign up without a
// profile image, so every account has a stable image URL from day one.
type AvatarService interface {
	GenerateInitialsAvatar(ctx context.Context, displayName string) (string, error)
}

type avatarService struct {
	log          *logger.Logger
	mediaService MediaService
	fontFace     font.Face
	bgColors     []color.NRGBA
}

func NewAvatarService(log *logger.Logger, mediaService MediaService) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("env var AVATAR_FONT is empty")
	}
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read avatar font: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse avatar font: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{Size: avatarSize * 0.42})

	return &avatarService{
		log:          serviceLog,
		mediaService: mediaService,
		fontFace:     face,
		bgColors: []color.NRGBA{
			{R: 0x2f, G: 0x6f, B: 0xed, A: 0xff},
			{R: 0xd9, G: 0x48, B: 0x4a, A: 0xff},
			{R: 0x2e, G: 0x9e, B: 0x6b, A: 0xff},
			{R: 0xb3, G: 0x5c, B: 0xd4, A: 0xff},
			{R: 0xe0, G: 0x8a, B: 0x2d, A: 0xff},
			{R: 0x0e, G: 0x8b, B: 0x9c, A: 0xff},
		},
	}, nil
}

func (av *avatarService) GenerateInitialsAvatar(ctx context.Context, displayName string) (string, error) {
	initials := initialsFor(displayName)
	bg := av.bgColors[colorIndexFor(displayName, len(av.bgColors))]

	dc := gg.NewContext(avatarSize, avatarSize)
	dc.SetColor(bg)
	dc.Clear()
	dc.SetFontFace(av.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(initials, avatarSize/2, avatarSize/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return "", fmt.Errorf("encode avatar png: %w", err)
	}

	return av.mediaService.StoreImage(ctx, types.Upload{
		Name: "avatar.png",
		Data: buf.Bytes(),
	})
}

func initialsFor(displayName string) string {
	fields := strings.Fields(strings.TrimSpace(displayName))
	switch len(fields) {
	case 0:
		return "?"
	case 1:
		runes := []rune(fields[0])
		return strings.ToUpper(string(runes[0]))
	default:
		first := []rune(fields[0])
		last := []rune(fields[len(fields)-1])
		return strings.ToUpper(string(first[0]) + string(last[0]))
	}
}

func colorIndexFor(displayName string, buckets int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(displayName))))
	return int(h.Sum32() % uint32(buckets))
}
