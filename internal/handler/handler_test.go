package handler

import (
	"net/http/httptest"
	"testing"

	"go-erp-ws/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validationf("bad input"), 400},
		{"not found", apperr.NotFoundf("item %s", "x"), 404},
		{"invalid operation", apperr.InvalidOperationf("already closed"), 409},
		{"persistence", apperr.Persistence("save", fiber.ErrInternalServerError), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/fail", func(c *fiber.Ctx) error {
				return respondError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
			if err != nil {
				t.Fatalf("app.Test failed: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestGetActorDefaultsToSystem(t *testing.T) {
	app := fiber.New()
	app.Get("/who", func(c *fiber.Ctx) error {
		return c.SendString(getActor(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/who", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	body := make([]byte, 32)
	n, _ := resp.Body.Read(body)
	if got := string(body[:n]); got != "system" {
		t.Errorf("expected actor 'system', got %q", got)
	}
}
