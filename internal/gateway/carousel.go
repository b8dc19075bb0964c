// internal/gateway/carousel.go
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/codr1/leaguedesk/internal/models"
)

type Carousels struct {
	c *Client
}

// ImageUpload is a new carousel slide. File.Field defaults to "file".
type ImageUpload struct {
	Title string
	Link  string
	File  File
}

func carouselPath(kind models.CarouselKind) string {
	return "/carousel/" + url.PathEscape(string(kind))
}

func (c *Carousels) Get(ctx context.Context, kind models.CarouselKind) (models.Carousel, error) {
	body, err := c.c.get(ctx, carouselPath(kind), nil)
	if err != nil {
		return models.Carousel{}, fmt.Errorf("get %s: %w", carouselPath(kind), err)
	}
	carousel, err := decodeItem[models.Carousel](body, "carousel")
	if err != nil {
		return models.Carousel{}, err
	}
	if carousel.Type == "" {
		carousel.Type = kind
	}
	return carousel, nil
}

func (c *Carousels) AddImage(ctx context.Context, kind models.CarouselKind, upload ImageUpload) error {
	if len(upload.File.Data) == 0 {
		return fmt.Errorf("add image: missing file")
	}
	if upload.File.Field == "" {
		upload.File.Field = "file"
	}
	fields := map[string]string{"title": upload.Title}
	if upload.Link != "" {
		fields["link"] = upload.Link
	}
	payload := JSONPayload(fields).Attach(upload.File)
	path := carouselPath(kind) + "/image"
	if _, err := c.c.send(ctx, http.MethodPost, path, payload); err != nil {
		return fmt.Errorf("add image %s: %w", path, err)
	}
	return nil
}

func (c *Carousels) RemoveImage(ctx context.Context, kind models.CarouselKind, imageURL string) error {
	path := carouselPath(kind) + "/image"
	payload := JSONPayload(map[string]string{"imageUrl": imageURL})
	if _, err := c.c.send(ctx, http.MethodDelete, path, payload); err != nil {
		return fmt.Errorf("remove image %s: %w", path, err)
	}
	return nil
}

// ReplaceImage removes the old slide and then uploads the new one. A failed
// upload leaves the slide removed.
func (c *Carousels) ReplaceImage(ctx context.Context, kind models.CarouselKind, oldURL string, upload ImageUpload) error {
	if err := c.RemoveImage(ctx, kind, oldURL); err != nil {
		return err
	}
	return c.AddImage(ctx, kind, upload)
}
