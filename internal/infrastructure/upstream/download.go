package upstream

import (
	"context"
	"fmt"
	"mime"
	"net/http"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

func (g *Gateway) DownloadPrintout(ctx context.Context, id domain.OrderID) (*domain.Blob, error) {
	return g.download(ctx, fmt.Sprintf("/stationery/admin/printouts/%s/download/", id), fmt.Sprintf("printout-%s", id))
}

func (g *Gateway) DownloadPrintoutFile(ctx context.Context, fileID int64) (*domain.Blob, error) {
	return g.download(ctx, fmt.Sprintf("/stationery/admin/printout-files/%d/download/", fileID), fmt.Sprintf("printout-file-%d", fileID))
}

// download fetches a binary resource. Unlike Do it refuses to send an
// anonymous request.
func (g *Gateway) download(ctx context.Context, path, fallbackName string) (*domain.Blob, error) {
	token := g.creds.AccessToken()
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	resp, err := g.client.fetch(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, resp.requestError()
	}

	name := fallbackName
	if cd := resp.header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			name = params["filename"]
		}
	}
	return &domain.Blob{
		Filename:    name,
		ContentType: resp.header.Get("Content-Type"),
		Data:        resp.body,
	}, nil
}
