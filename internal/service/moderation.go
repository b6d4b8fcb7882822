package service

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CensorPair moderates a title and a body concurrently. Both calls always run
// to completion. When both fail, the title error is returned.
func CensorPair(ctx context.Context, censor Censor, title, content string) (string, string, error) {
	var (
		g                 errgroup.Group
		censoredTitle     string
		censoredContent   string
		titleErr, bodyErr error
	)

	g.Go(func() error {
		censoredTitle, titleErr = censor.Check(ctx, title)
		return titleErr
	})
	g.Go(func() error {
		censoredContent, bodyErr = censor.Check(ctx, content)
		return bodyErr
	})
	_ = g.Wait()

	if titleErr != nil {
		return "", "", titleErr
	}
	if bodyErr != nil {
		return "", "", bodyErr
	}
	return censoredTitle, censoredContent, nil
}
