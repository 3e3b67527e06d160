package server

import (
	"context"
	"errors"
	"net/http"
	"padel-connect/internal/identity"
	"padel-connect/internal/padelv1"

	"connectrpc.com/connect"
)

var errSignInRequired = errors.New("sign in required")

// NewMatchServiceHandler mounts every MatchService procedure under one path prefix.
func NewMatchServiceHandler(svc *MatchServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(padelv1.MatchServiceListMatchesProcedure, connect.NewUnaryHandler(padelv1.MatchServiceListMatchesProcedure, svc.ListMatches, opts...))
	mux.Handle(padelv1.MatchServiceGetMatchProcedure, connect.NewUnaryHandler(padelv1.MatchServiceGetMatchProcedure, svc.GetMatch, opts...))
	mux.Handle(padelv1.MatchServiceCreateMatchProcedure, connect.NewUnaryHandler(padelv1.MatchServiceCreateMatchProcedure, svc.CreateMatch, opts...))
	mux.Handle(padelv1.MatchServiceJoinMatchProcedure, connect.NewUnaryHandler(padelv1.MatchServiceJoinMatchProcedure, svc.JoinMatch, opts...))
	mux.Handle(padelv1.MatchServiceLeaveMatchProcedure, connect.NewUnaryHandler(padelv1.MatchServiceLeaveMatchProcedure, svc.LeaveMatch, opts...))
	mux.Handle(padelv1.MatchServiceDismissErrorProcedure, connect.NewUnaryHandler(padelv1.MatchServiceDismissErrorProcedure, svc.DismissError, opts...))

	return "/" + padelv1.MatchServiceName + "/", mux
}

func NewAuthServiceHandler(svc *AuthServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(padelv1.AuthServiceSignInProcedure, connect.NewUnaryHandler(padelv1.AuthServiceSignInProcedure, svc.SignIn, opts...))
	mux.Handle(padelv1.AuthServiceSignOutProcedure, connect.NewUnaryHandler(padelv1.AuthServiceSignOutProcedure, svc.SignOut, opts...))
	mux.Handle(padelv1.AuthServiceGetSessionProcedure, connect.NewUnaryHandler(padelv1.AuthServiceGetSessionProcedure, svc.GetSession, opts...))

	return "/" + padelv1.AuthServiceName + "/", mux
}

// RequireSession rejects calls while the identity provider reports no logged-in caller.
func RequireSession(idp identity.Provider) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !idp.IsLoggedIn() {
				return nil, connect.NewError(connect.CodeUnauthenticated, errSignInRequired)
			}
			return next(ctx, req)
		}
	}
}

// Routes mounts both services. MatchService requires a signed-in caller.
func Routes(matchSvc *MatchServer, authSvc *AuthServer, idp identity.Provider) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(NewMatchServiceHandler(matchSvc, connect.WithInterceptors(RequireSession(idp))))
	mux.Handle(NewAuthServiceHandler(authSvc))
	return mux
}
