package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oakmere/ledgermatch/internal/http/ledgerapi"
	"github.com/oakmere/ledgermatch/internal/http/remittanceapi"
)

func New(
	ledgerV1 *ledgerapi.Handler,
	remittanceV1 *remittanceapi.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/ledger", ledgerV1.Routes)

		r.Route("/remittances", remittanceV1.Routes)
	})

	return router
}
