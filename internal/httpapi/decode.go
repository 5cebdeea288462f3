package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"mlserve/internal/inference"
	"mlserve/pkg/types"
)

const imageField = "image_file"

// imageClient fetches image_url payloads. Every dial goes through
// guardImageDial, so redirects and DNS answers are checked too.
var imageClient = &http.Client{
	Timeout: 15 * time.Second,
	Transport: &http.Transport{
		DialContext:         (&net.Dialer{Timeout: 10 * time.Second, Control: guardImageDial}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

var errPrivateImageHost = errors.New("image_url host is not publicly routable")

func guardImageDial(network, address string, _ syscall.RawConn) error {
	if allowPrivateImageURLs {
		return nil
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	if ip := net.ParseIP(host); ip == nil || blockedImageIP(ip) {
		return fmt.Errorf("%w: %s", errPrivateImageHost, host)
	}
	return nil
}

func blockedImageIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast()
}

// imageFromRequest decodes the request image from a multipart upload or a
// JSON body carrying base64 data or a URL.
func imageFromRequest(ctx context.Context, r *http.Request) (inference.ImageBuffer, error) {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return inference.ImageBuffer{}, unsupportedMedia("Content-Type must be multipart/form-data or application/json")
	}
	switch mt {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return inference.ImageBuffer{}, badRequest("invalid multipart body")
		}
		f, _, err := r.FormFile(imageField)
		if err != nil {
			return inference.ImageBuffer{}, badRequest(imageField + " is required")
		}
		defer f.Close()
		return decodeImage(f)
	case "application/json":
		var req types.PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return inference.ImageBuffer{}, badRequest("invalid JSON body")
		}
		switch {
		case req.ImageBase64 != "" && req.ImageURL != "":
			return inference.ImageBuffer{}, badRequest("set only one of image_base64 or image_url")
		case req.ImageBase64 != "":
			return decodeBase64Image(req.ImageBase64)
		case req.ImageURL != "":
			return fetchImage(ctx, req.ImageURL)
		default:
			return inference.ImageBuffer{}, badRequest("image_base64 or image_url is required")
		}
	default:
		return inference.ImageBuffer{}, unsupportedMedia("Content-Type must be multipart/form-data or application/json")
	}
}

func decodeImage(r io.Reader) (inference.ImageBuffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return inference.ImageBuffer{}, badRequest("invalid image: " + err.Error())
	}
	return inference.NewImageBuffer(img), nil
}

// decodeBase64Image accepts raw standard base64 or a data URI.
func decodeBase64Image(s string) (inference.ImageBuffer, error) {
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return inference.ImageBuffer{}, badRequest("malformed data URI")
		}
		s = s[i+1:]
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return inference.ImageBuffer{}, badRequest("invalid base64 image")
	}
	return decodeImage(bytes.NewReader(b))
}

func fetchImage(ctx context.Context, raw string) (inference.ImageBuffer, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return inference.ImageBuffer{}, badRequest("image_url must be an absolute http(s) URL")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return inference.ImageBuffer{}, badRequest("invalid image_url")
	}
	resp, err := imageClient.Do(req)
	if err != nil {
		return inference.ImageBuffer{}, badRequest("fetch image_url: " + err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return inference.ImageBuffer{}, badRequest(fmt.Sprintf("fetch image_url: status %d", resp.StatusCode))
	}
	return decodeImage(io.LimitReader(resp.Body, maxBodyBytes))
}

// LoadImageFile decodes a JPEG, PNG or GIF file.
func LoadImageFile(path string) (inference.ImageBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return inference.ImageBuffer{}, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return inference.ImageBuffer{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return inference.NewImageBuffer(img), nil
}
