package poster

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Variant is one resized poster rendition.
type Variant struct {
	Suffix string
	Width  int
}

// Variants are the renditions derived from every poster, in both JPEG and
// WebP encodings.
var Variants = []Variant{
	{Suffix: "-s", Width: 300},
	{Suffix: "-m", Width: 600},
	{Suffix: "-l", Width: 1000},
	{Suffix: "-xl", Width: 2000},
}

const (
	// optimizedMetaKey marks objects written by the pipeline itself, so a
	// derive run triggered by its own output does nothing instead of
	// recursing.
	optimizedMetaKey = "optimized"

	jpegQuality = 85
	webpQuality = 80
)

// Pipeline derives the resized poster variants for uploaded originals.
type Pipeline struct {
	store  ObjectStore
	logger *zerolog.Logger
}

// NewPipeline creates a Pipeline over the poster object store.
func NewPipeline(store ObjectStore, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{store: store, logger: logger}
}

// Derive loads the uploaded poster, re-encodes the original as JPEG, and
// uploads every size/format variant. All variants are produced and uploaded
// concurrently; the first failure cancels the rest and fails the trigger.
func (p *Pipeline) Derive(ctx context.Context, key string) error {
	data, metadata, err := p.store.Download(ctx, key)
	if err != nil {
		return err
	}

	if metadata[optimizedMetaKey] == "true" {
		p.logger.Debug().Str("key", key).Msg("poster already optimized, skipping")
		return nil
	}

	original, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode poster %s: %w", key, err)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	// The original is stored back as JPEG, marked optimized.
	group.Go(func() error {
		return p.uploadJPEG(groupCtx, key, original)
	})

	for _, variant := range Variants {
		resized := imaging.Resize(original, variant.Width, 0, imaging.Lanczos)

		group.Go(func() error {
			return p.uploadJPEG(groupCtx, key+variant.Suffix, resized)
		})
		group.Go(func() error {
			return p.uploadWebP(groupCtx, key+variant.Suffix+".webp", resized)
		})
	}

	return group.Wait()
}

func (p *Pipeline) uploadJPEG(ctx context.Context, key string, img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("encode jpeg %s: %w", key, err)
	}

	return p.store.Upload(ctx, key, "image/jpeg", &buf, optimizedMetadata())
}

func (p *Pipeline) uploadWebP(ctx context.Context, key string, img image.Image) error {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return fmt.Errorf("encode webp %s: %w", key, err)
	}

	return p.store.Upload(ctx, key, "image/webp", &buf, optimizedMetadata())
}

func optimizedMetadata() map[string]string {
	return map[string]string{optimizedMetaKey: "true"}
}
