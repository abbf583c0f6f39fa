package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/paharnama-dev/paharnama/internal/errors"
	"github.com/paharnama-dev/paharnama/internal/jwt"
	"github.com/paharnama-dev/paharnama/internal/middleware"
	"github.com/paharnama-dev/paharnama/internal/utils"
)

func loadAndValidateRequestBody(r *http.Request, body any) error {
	return utils.DecodeValidate(r.Body, body)
}

// writeErrorAndStatusCode renders errors in the response envelope.
func writeErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		respond(w, e.StatusCode, e.Message, nil)
		return
	}
	utils.WriteErrorAndStatusCode(w, err)
}

func pathId(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{Message: "Invalid id", StatusCode: http.StatusBadRequest}
	}
	return id, nil
}

// claims fetches the identity placed in the context by the auth
// middleware. Routes calling this are always behind NeedAuth, so a
// missing identity is a wiring bug, not a client error.
func claims(r *http.Request) (*jwt.Claims, error) {
	c := middleware.GetClaimsFromContext(r)
	if c == nil {
		return nil, &errors.ErrorWithStatusCode{Message: "Please sign-in", StatusCode: http.StatusUnauthorized}
	}
	return c, nil
}
