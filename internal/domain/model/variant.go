package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidColour = errors.New("invalid colour")
	ErrInvalidSize   = errors.New("invalid size")
)

// Colour 商品顏色，空字串代表未選擇
type Colour string

const (
	ColourNone   Colour = ""
	ColourRed    Colour = "Red"
	ColourBlue   Colour = "Blue"
	ColourGreen  Colour = "Green"
	ColourBlack  Colour = "Black"
	ColourWhite  Colour = "White"
	ColourYellow Colour = "Yellow"
	ColourPink   Colour = "Pink"
	ColourPurple Colour = "Purple"
	ColourOrange Colour = "Orange"
	ColourGrey   Colour = "Grey"
	ColourBrown  Colour = "Brown"
	ColourNavy   Colour = "Navy"
	ColourTeal   Colour = "Teal"
	ColourMaroon Colour = "Maroon"
	ColourBeige  Colour = "Beige"
)

var colours = map[string]Colour{}

// Size 商品尺寸，空字串代表未選擇
type Size string

const (
	SizeNone Size = ""
	SizeXS   Size = "XS"
	SizeS    Size = "S"
	SizeM    Size = "M"
	SizeL    Size = "L"
	SizeXL   Size = "XL"
	SizeXXL  Size = "XXL"
)

var sizes = map[string]Size{}

func init() {
	for _, c := range []Colour{
		ColourRed, ColourBlue, ColourGreen, ColourBlack, ColourWhite,
		ColourYellow, ColourPink, ColourPurple, ColourOrange, ColourGrey,
		ColourBrown, ColourNavy, ColourTeal, ColourMaroon, ColourBeige,
	} {
		colours[strings.ToLower(string(c))] = c
	}
	for _, s := range []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL} {
		sizes[strings.ToLower(string(s))] = s
	}
}

// ParseColour 不分大小寫，空字串回傳 ColourNone
func ParseColour(v string) (Colour, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return ColourNone, nil
	}
	c, ok := colours[strings.ToLower(v)]
	if !ok {
		return ColourNone, fmt.Errorf("%w: %q", ErrInvalidColour, v)
	}
	return c, nil
}

// ParseSize 不分大小寫，空字串回傳 SizeNone
func ParseSize(v string) (Size, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return SizeNone, nil
	}
	s, ok := sizes[strings.ToLower(v)]
	if !ok {
		return SizeNone, fmt.Errorf("%w: %q", ErrInvalidSize, v)
	}
	return s, nil
}
