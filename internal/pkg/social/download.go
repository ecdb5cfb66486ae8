package social

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Downloader 把远端媒体流式写入本地临时文件
type Downloader struct {
	http *resty.Client
	dir  string
}

func NewDownloader(timeout time.Duration, dir string) *Downloader {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Downloader{
		http: resty.New().SetTimeout(timeout),
		dir:  dir,
	}
}

// Download 返回临时文件路径，调用方负责删除；失败时不留下文件
func (d *Downloader) Download(ctx context.Context, url string) (string, error) {
	resp, err := d.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return "", transient("download media", err)
	}
	body := resp.RawBody()
	defer body.Close()

	switch status := resp.StatusCode(); status {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		// 预签名失效与用户授权无关，下次重新签名后重试
		return "", transient("download media", fmt.Errorf("media store status %d", status))
	default:
		snippet, _ := io.ReadAll(io.LimitReader(body, 512))
		return "", errors.Wrap(rejected("media-store", status, snippet), "download media")
	}

	file, err := os.CreateTemp(d.dir, "crosspost-media-*")
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	path := file.Name()

	if _, err = io.Copy(file, body); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", transient("download media", err)
	}
	if err = file.Close(); err != nil {
		_ = os.Remove(path)
		return "", errors.Wrap(err, "close temp file")
	}
	return path, nil
}
