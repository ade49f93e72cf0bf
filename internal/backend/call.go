package backend

import (
	"fmt"
	"strings"

	"github.com/oshokin/media-grabber/internal/media"
)

// Shape identifies a Download argument shape by its positional arity.
type Shape uint8

const (
	// ShapeBasic is url and output directory.
	ShapeBasic Shape = 2
	// ShapeQuality adds the quality label.
	ShapeQuality Shape = 3
	// ShapeTyped adds the media kind.
	ShapeTyped Shape = 4
	// ShapeFull adds the format id and the trim window bounds.
	ShapeFull Shape = 7
)

// String returns the shape name and arity.
func (s Shape) String() string {
	switch s {
	case ShapeBasic:
		return "basic/2"
	case ShapeQuality:
		return "quality/3"
	case ShapeTyped:
		return "typed/4"
	case ShapeFull:
		return "full/7"
	default:
		return fmt.Sprintf("shape/%d", uint8(s))
	}
}

// Target holds the arguments shared by every shape.
type Target struct {
	// URL is the item to download.
	URL string
	// OutputDir receives the produced files.
	OutputDir string
	// Progress receives single-item progress; may be nil.
	Progress media.ProgressFunc
}

// Base returns the shared arguments.
func (t Target) Base() Target {
	return t
}

// Validate rejects calls that are missing mandatory arguments.
func (t Target) Validate() error {
	if strings.TrimSpace(t.URL) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, media.ErrEmptyURL)
	}

	if strings.TrimSpace(t.OutputDir) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, media.ErrEmptyOutputDir)
	}

	return nil
}

// Call is one of BasicCall, QualityCall, TypedCall or FullCall.
type Call interface {
	// Shape returns the argument shape.
	Shape() Shape
	// Base returns the shared arguments.
	Base() Target
}

// BasicCall is url and output directory only.
type BasicCall struct {
	Target
}

// Shape returns ShapeBasic.
func (BasicCall) Shape() Shape { return ShapeBasic }

// QualityCall adds the requested quality label.
type QualityCall struct {
	Target
	Quality string
}

// Shape returns ShapeQuality.
func (QualityCall) Shape() Shape { return ShapeQuality }

// TypedCall adds the media kind.
type TypedCall struct {
	Target
	Quality string
	Kind    media.Kind
}

// Shape returns ShapeTyped.
func (TypedCall) Shape() Shape { return ShapeTyped }

// FullCall carries every option, including a pinned format and a trim window.
type FullCall struct {
	Target
	Quality  string
	Kind     media.Kind
	FormatID string
	Trim     *media.TrimWindow
}

// Shape returns ShapeFull.
func (FullCall) Shape() Shape { return ShapeFull }

// mismatch builds the ErrShapeMismatch error of a rejected call.
func mismatch(platform media.Platform, call Call, accepted ...Shape) error {
	names := make([]string, 0, len(accepted))
	for _, s := range accepted {
		names = append(names, s.String())
	}

	shape := "nil"
	if call != nil {
		shape = call.Shape().String()
	}

	return fmt.Errorf("%w: %s download takes %s, got %s",
		ErrShapeMismatch, platform, strings.Join(names, " or "), shape)
}
