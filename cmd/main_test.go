package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/gradeparse/internal/adapters/llm"
	app "github.com/okian/gradeparse/internal/app"
	"github.com/okian/gradeparse/internal/config"
	"github.com/okian/gradeparse/internal/domain/extract"
	"github.com/okian/gradeparse/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestBuildExtractor(t *testing.T) {
	convey.Convey("Given a configuration", t, func() {
		cfg := config.New()

		convey.Convey("When the mode is local", func() {
			ex, err := buildExtractor(cfg, logger.Nop())

			convey.Convey("Then a local extractor should be built", func() {
				convey.So(err, convey.ShouldBeNil)
				_, ok := ex.(*extract.LocalExtractor)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the mode is remote without an API key", func() {
			cfg.ExtractorMode = "remote"
			cfg.LLMAPIKeyEnv = "GRADEPARSE_TEST_MISSING_KEY"
			t.Setenv("GRADEPARSE_TEST_MISSING_KEY", "")

			_, err := buildExtractor(cfg, logger.Nop())

			convey.Convey("Then the missing key should be reported", func() {
				convey.So(errors.Is(err, llm.ErrMissingAPIKey), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the mode is remote_fallback with a key", func() {
			cfg.ExtractorMode = "remote_fallback"
			cfg.LLMAPIKeyEnv = "GRADEPARSE_TEST_KEY"
			t.Setenv("GRADEPARSE_TEST_KEY", "sk-test")

			ex, err := buildExtractor(cfg, logger.Nop())

			convey.Convey("Then a fallback extractor should be built", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ex, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewHTTPServer(t *testing.T) {
	convey.Convey("Given a started service and HTTP server", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.CORSAllowedOrigins = "https://grades.example"
		svc := app.New(app.WithWorkerCount(1))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := newHTTPServer(ctx, cfg, svc, logger.Nop())

		convey.Convey("Then API and docs routes should be served", func() {
			convey.So(srv.Addr, convey.ShouldEqual, cfg.Addr)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"text":"英语 3 85"}`))
			req.Header.Set("Origin", "https://grades.example")
			srv.Handler.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "https://grades.example")

			w = httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		svc := app.New()

		convey.Convey("Then they should run without panicking", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a configuration on a free port", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			convey.Convey("Then run should shut down cleanly", func() {
				convey.So(run(ctx, cfg, logger.Nop()), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the store driver fails to open", func() {
			cfg.StoreDriver = "oracle"
			err := run(context.Background(), cfg, logger.Nop())

			convey.Convey("Then the error should be returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
