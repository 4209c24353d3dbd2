package arxivar

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
)

// Insert uploads into the transient buffer store.
func (c *Client) Insert(ctx context.Context, name string, r io.Reader) ([]string, error) {
	return c.upload(ctx, "buffer insert", "api/Buffer/insert", name, r)
}

// CacheInsert uploads into the cache store.
func (c *Client) CacheInsert(ctx context.Context, name string, r io.Reader) ([]string, error) {
	return c.upload(ctx, "cache insert", "api/Cache/insert", name, r)
}

// upload streams r as a multipart file part without buffering it in memory.
func (c *Client) upload(ctx context.Context, op, endpoint, name string, r io.Reader) ([]string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	var ids []string
	err := c.call(ctx, request{
		op:          fmt.Sprintf("%s %s", op, name),
		method:      http.MethodPost,
		path:        endpoint,
		raw:         pr,
		contentType: mw.FormDataContentType(),
	}, &ids)
	// Unblock the writer if the request ended before reading the body.
	pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Download returns a profile's document content and its file name.
func (c *Client) Download(ctx context.Context, docNumber int, forView bool) (io.ReadCloser, string, error) {
	resp, err := c.do(ctx, request{
		op:     fmt.Sprintf("download %d", docNumber),
		method: http.MethodGet,
		path:   "api/Documents/" + strconv.Itoa(docNumber),
		query:  url.Values{"forView": {strconv.FormatBool(forView)}},
	})
	if err != nil {
		return nil, "", err
	}
	return resp.Body, attachmentName(resp.Header.Get("Content-Disposition")), nil
}

// attachmentName extracts the file name from a Content-Disposition header.
func attachmentName(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return path.Base(params["filename"])
}
