package server

import (
	"context"
	"errors"
	"padel-connect/internal/identity"
	"padel-connect/internal/padelv1"
	"strings"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

var errCredentialsRejected = errors.New("credentials rejected")

type AuthServer struct {
	identity identity.Provider
}

func NewAuthServer(idp identity.Provider) *AuthServer {
	return &AuthServer{identity: idp}
}

func (s *AuthServer) SignIn(ctx context.Context, req *connect.Request[padelv1.SignInRequest]) (*connect.Response[padelv1.SignInResponse], error) {
	if strings.TrimSpace(req.Msg.Email) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("email is required"))
	}

	ok, err := s.identity.SignIn(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("sign in failed")
		return nil, toConnectError(ctx, err)
	}
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, errCredentialsRejected)
	}
	return connect.NewResponse(&padelv1.SignInResponse{Session: s.session()}), nil
}

func (s *AuthServer) SignOut(ctx context.Context, req *connect.Request[padelv1.SignOutRequest]) (*connect.Response[padelv1.SignOutResponse], error) {
	if err := s.identity.SignOut(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("sign out failed")
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&padelv1.SignOutResponse{Session: s.session()}), nil
}

func (s *AuthServer) GetSession(ctx context.Context, req *connect.Request[padelv1.GetSessionRequest]) (*connect.Response[padelv1.GetSessionResponse], error) {
	return connect.NewResponse(&padelv1.GetSessionResponse{Session: s.session()}), nil
}

func (s *AuthServer) session() *padelv1.Session {
	if !s.identity.IsLoggedIn() {
		return &padelv1.Session{}
	}
	return &padelv1.Session{
		LoggedIn: true,
		UserId:   s.identity.CurrentUserID(),
		UserName: s.identity.CurrentUserName(),
	}
}
