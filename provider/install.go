package provider

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/streamdex/streamdex/fetch"
	"github.com/streamdex/streamdex/filesystem"
	"github.com/streamdex/streamdex/log"
	"github.com/streamdex/streamdex/util"
)

// Install downloads the Lua script at rawURL into dir. An identical local
// copy is left untouched and reported as not updated.
func Install(ctx context.Context, scraper Scraper, rawURL, dir string) (target string, updated bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false, err
	}
	name := path.Base(u.Path)
	if path.Ext(name) != CustomProviderExtension {
		return "", false, fmt.Errorf("%s is not a %s script", rawURL, CustomProviderExtension)
	}
	target = filepath.Join(dir, util.SanitizeFilename(util.FileStem(name))+CustomProviderExtension)

	result, err := scraper.Scrape(ctx, rawURL, fetch.Options{FollowRedirects: true})
	if err != nil {
		return target, false, err
	}
	if result.Status != 200 {
		return target, false, &fetch.HTTPStatusError{URL: rawURL, StatusCode: result.Status}
	}

	remote := []byte(result.Content)
	fs := filesystem.API()
	if local, err := fs.ReadFile(target); err == nil {
		if sha256.Sum256(local) == sha256.Sum256(remote) {
			return target, false, nil
		}
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return target, false, err
	}

	tmp := target + ".tmp"
	if err := fs.WriteReader(tmp, bytes.NewReader(remote)); err != nil {
		return target, false, err
	}
	if err := fs.Rename(tmp, target); err != nil {
		return target, false, errors.Join(err, fs.Remove(tmp))
	}

	log.Fields(map[string]any{"component": "provider", "url": rawURL}).Infof("installed %s", target)
	return target, true, nil
}
