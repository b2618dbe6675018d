package models

import (
	"fmt"

	"github.com/techurbanist/duread/internal/common"
)

// Direction selects the source and target language of a document.
type Direction string

const (
	DirectionEnZh Direction = "en-zh"
	DirectionZhEn Direction = "zh-en"
)

// ParseDirection validates a user- or storage-supplied direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionEnZh, DirectionZhEn:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrInvalidDirection, s)
	}
}

// Languages returns the human names of the source and target languages.
func (d Direction) Languages() (source, target string) {
	if d == DirectionZhEn {
		return "Chinese", "English"
	}
	return "English", "Chinese"
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == DirectionZhEn {
		return DirectionEnZh
	}
	return DirectionZhEn
}

func (d Direction) String() string {
	src, dst := d.Languages()
	return fmt.Sprintf("%s → %s", src, dst)
}
