package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/bigkaa/tienda-admin/internal/domain/model"
)

// UploadImage загружает изображение (multipart, поле image).
func (c *Client) UploadImage(ctx context.Context, cred Credentials, filename string, r io.Reader) (model.ImageUpload, error) {
	return c.upload(ctx, "upload_image", pathImageUpload, cred, filename, r, nil)
}

// UploadImageToFolder загружает изображение в папку (поля image и folder).
func (c *Client) UploadImageToFolder(ctx context.Context, cred Credentials, filename string, r io.Reader, folder string) (model.ImageUpload, error) {
	return c.upload(ctx, "upload_image_to_folder", pathImageUploadToFolder, cred, filename, r,
		map[string]string{"folder": folder})
}

// upload собирает multipart-тело в памяти и отправляет его.
// Размер файла ограничивает форма UI (см. controller.MaxUploadBytes).
func (c *Client) upload(ctx context.Context, op, path string, cred Credentials, filename string, r io.Reader, fields map[string]string) (model.ImageUpload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return model.ImageUpload{}, fmt.Errorf("multipart %s: %w", op, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return model.ImageUpload{}, fmt.Errorf("чтение файла %s: %w", op, err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return model.ImageUpload{}, fmt.Errorf("multipart %s: %w", op, err)
		}
	}
	if err := mw.Close(); err != nil {
		return model.ImageUpload{}, fmt.Errorf("multipart %s: %w", op, err)
	}

	body, err := c.doRead(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        path,
		cred:        cred,
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return model.ImageUpload{}, err
	}

	var resp imageUploadResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.URL == "" {
		countMalformed(op)
		if err == nil {
			err = fmt.Errorf("%w: нет url", errMalformed)
		}
		return model.ImageUpload{}, fmt.Errorf("разбор ответа %s: %w", op, err)
	}
	return model.ImageUpload{Message: resp.Message, URL: resp.URL}, nil
}
