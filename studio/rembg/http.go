package rembg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"

	nhttp "github.com/chaos-io/studioshot/util/http"
)

const removePath = "api/remove"

var ErrBadResponse = errors.New("rembg: response is not an image")

// HTTPRemBG 调用 rembg 兼容的 HTTP 服务抠图
/*
	curl -X POST "$BASE_URL/api/remove" \
	  -F "file=@car.jpg" \
	  -F "model=u2net" -o car.png
*/
type HTTPRemBG struct {
	baseURL string
	model   string
	timeout time.Duration
	cli     nhttp.IClient
	logger  *zap.Logger
}

func NewHTTPRemBG(baseURL, model string, timeout time.Duration, logger *zap.Logger) *HTTPRemBG {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPRemBG{
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		model:   model,
		timeout: timeout,
		cli:     nhttp.NewHTTPClient(),
		logger:  logger,
	}
}

func (b *HTTPRemBG) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := png.Encode(part, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	if b.model != "" {
		_ = writer.WriteField("model", b.model)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	var raw []byte
	reqParam := &nhttp.RequestParam{
		RequestURI: b.baseURL + removePath,
		Method:     "POST",
		Header:     map[string]string{"Content-Type": writer.FormDataContentType()},
		Body:       body,
		Response:   &raw,
		Timeout:    b.timeout,
	}
	if err := b.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	b.logger.Debug("got the rembg response", zap.Int("bytes", len(raw)))

	cut, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return cut, nil
}
