package api

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/iudanet/freelancehub/internal/models"
)

// DownloadAttachment скачивает файл отклика.
// Имя файла берется из Content-Disposition, иначе attachment_<id>.pdf.
func (c *Client) DownloadAttachment(ctx context.Context, id int) (*models.AttachmentFile, error) {
	r := &request{
		method: http.MethodGet,
		route:  "/user/attachments/{id}",
		path:   fmt.Sprintf("/user/attachments/%d", id),
	}

	resp, err := c.do(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("download attachment %d: %w", id, err)
	}

	return &models.AttachmentFile{
		FileName:    attachmentFileName(resp.header.Get("Content-Disposition"), id),
		ContentType: resp.header.Get("Content-Type"),
		Data:        resp.body,
	}, nil
}

func attachmentFileName(disposition string, id int) string {
	fallback := fmt.Sprintf("attachment_%d.pdf", id)
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	// только имя, без каталогов из заголовка
	name := filepath.Base(params["filename"])
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return fallback
	}
	return name
}
