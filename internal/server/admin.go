package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"larplaner/internal/repo"
	"larplaner/internal/wire"
)

func registerAdmin(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-user-emails",
		Method:      http.MethodGet,
		Path:        "/admin/users/emails",
		Summary:     "List known user emails",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []string `json:"body"`
	}, error) {
		if err := requireAdmin(ctx); err != nil {
			return nil, err
		}
		emails, err := r.ListUserEmails(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		if emails == nil {
			emails = []string{}
		}
		return &struct {
			Body []string `json:"body"`
		}{Body: emails}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/admin/users/{id}",
		Summary:     "Get a user",
	}, func(ctx context.Context, in *IDPath) (*struct {
		Body wire.User `json:"body"`
	}, error) {
		if err := requireAdmin(ctx); err != nil {
			return nil, err
		}
		u, err := r.GetUser(ctx, in.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body wire.User `json:"body"`
		}{Body: u}, nil
	})
}
