package fcm

import (
	"context"
	"fmt"
	"sync"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

var (
	appMu sync.Mutex
	app   *firebase.App
)

// App returns the process-wide Firebase app, initialising it from the
// service-account JSON on first use. Later calls return the same app and
// ignore their arguments. A failed init is not cached, so the next call retries.
func App(ctx context.Context, serviceAccountJSON []byte) (*firebase.App, error) {
	appMu.Lock()
	defer appMu.Unlock()
	if app != nil {
		return app, nil
	}
	a, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(serviceAccountJSON))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	app = a
	return app, nil
}
