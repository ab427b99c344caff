package middlewares

import (
	"context"

	"github.com/5w1tchy/locallibrary/internal/models"
)

func WithViewer(ctx context.Context, v models.Viewer) context.Context {
	return context.WithValue(ctx, ctxKeyViewer, v)
}

// ViewerFrom returns the request's viewer; anonymous when none was loaded.
func ViewerFrom(ctx context.Context) models.Viewer {
	v, _ := ctx.Value(ctxKeyViewer).(models.Viewer)
	return v
}
