package server

import (
	"context"
	"errors"
	"fmt"
	"padel-connect/internal/constants"
	"padel-connect/internal/domain"
	"padel-connect/internal/identity"
	"padel-connect/internal/ledger"
	"padel-connect/internal/middleware"
	"padel-connect/internal/padelv1"
	"padel-connect/internal/viewmodel"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

type MatchServer struct {
	vm       *viewmodel.MatchViewModel
	identity identity.Provider
}

func NewMatchServer(vm *viewmodel.MatchViewModel, idp identity.Provider) *MatchServer {
	return &MatchServer{vm: vm, identity: idp}
}

func (s *MatchServer) ListMatches(ctx context.Context, req *connect.Request[padelv1.ListMatchesRequest]) (*connect.Response[padelv1.ListMatchesResponse], error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.vm.Refresh(ctx)
	st := s.vm.State()

	callerID := s.identity.CurrentUserID()
	matches := make([]*padelv1.Match, 0, len(st.Matches))
	for _, m := range st.Matches {
		matches = append(matches, toProtoMatch(m, callerID))
	}

	zerolog.Ctx(ctx).Debug().Int("count", len(matches)).Str("error", st.Err).Msg("matches listed")

	return connect.NewResponse(&padelv1.ListMatchesResponse{
		Matches: matches,
		Loading: st.Loading,
		Error:   st.Err,
	}), nil
}

func (s *MatchServer) GetMatch(ctx context.Context, req *connect.Request[padelv1.GetMatchRequest]) (*connect.Response[padelv1.GetMatchResponse], error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	m, err := s.load(ctx, req.Msg.MatchId)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&padelv1.GetMatchResponse{Match: m}), nil
}

func (s *MatchServer) CreateMatch(ctx context.Context, req *connect.Request[padelv1.CreateMatchRequest]) (*connect.Response[padelv1.CreateMatchResponse], error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	in, err := fromCreateRequest(req.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	m, err := s.vm.Create(ctx, in)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	zerolog.Ctx(ctx).Info().Str("match_id", m.ID).Str("club", m.ClubName).Msg("match created")
	return connect.NewResponse(&padelv1.CreateMatchResponse{
		Match: toProtoMatch(m, s.identity.CurrentUserID()),
	}), nil
}

func (s *MatchServer) JoinMatch(ctx context.Context, req *connect.Request[padelv1.JoinMatchRequest]) (*connect.Response[padelv1.JoinMatchResponse], error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if err := s.vm.Join(ctx, req.Msg.MatchId); err != nil {
		return nil, toConnectError(ctx, err)
	}
	m, err := s.load(ctx, req.Msg.MatchId)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&padelv1.JoinMatchResponse{Match: m}), nil
}

func (s *MatchServer) LeaveMatch(ctx context.Context, req *connect.Request[padelv1.LeaveMatchRequest]) (*connect.Response[padelv1.LeaveMatchResponse], error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if err := s.vm.Leave(ctx, req.Msg.MatchId); err != nil {
		return nil, toConnectError(ctx, err)
	}
	m, err := s.load(ctx, req.Msg.MatchId)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&padelv1.LeaveMatchResponse{Match: m}), nil
}

func (s *MatchServer) DismissError(ctx context.Context, req *connect.Request[padelv1.DismissErrorRequest]) (*connect.Response[padelv1.DismissErrorResponse], error) {
	s.vm.DismissError()
	return connect.NewResponse(&padelv1.DismissErrorResponse{}), nil
}

func (s *MatchServer) load(ctx context.Context, id string) (*padelv1.Match, error) {
	if strings.TrimSpace(id) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("match_id is required"))
	}
	m, ok, err := s.vm.GetByID(ctx, id)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("%w: %s", viewmodel.ErrMatchNotFound, id))
	}
	return toProtoMatch(m, s.identity.CurrentUserID()), nil
}

func fromCreateRequest(msg *padelv1.CreateMatchRequest) (viewmodel.CreateMatchInput, error) {
	start, err := time.Parse(time.RFC3339, msg.StartTime)
	if err != nil {
		return viewmodel.CreateMatchInput{}, fmt.Errorf("invalid start_time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, msg.EndTime)
	if err != nil {
		return viewmodel.CreateMatchInput{}, fmt.Errorf("invalid end_time: %w", err)
	}
	skill, err := domain.ParseSkillLevel(msg.SkillLevel)
	if err != nil {
		return viewmodel.CreateMatchInput{}, err
	}

	spots := int(msg.TotalSpots)
	if spots == 0 {
		spots = constants.DefaultTotalSpots
	}

	return viewmodel.CreateMatchInput{
		ClubName:    msg.ClubName,
		Location:    msg.Location,
		StartTime:   start,
		EndTime:     end,
		TotalSpots:  spots,
		Description: msg.Description,
		SkillLevel:  skill,
	}, nil
}

func toProtoMatch(m domain.Match, callerID string) *padelv1.Match {
	return &padelv1.Match{
		Id:             m.ID,
		ClubName:       m.ClubName,
		Location:       m.Location,
		StartTime:      m.StartTime.Format(time.RFC3339),
		EndTime:        m.EndTime.Format(time.RFC3339),
		TotalSpots:     int32(m.TotalSpots),
		AvailableSpots: int32(m.AvailableSpots),
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
		JoinedUsers:    m.Clone().JoinedUsers,
		Description:    m.Description,
		SkillLevel:     string(m.SkillLevel),
		IsMine:         m.IsCreator(callerID),
		HasJoined:      m.HasUserJoined(callerID),
		CanJoin:        m.CanJoin(callerID),
	}
}

func toConnectError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, viewmodel.ErrMatchNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, domain.ErrInvalidMatch), errors.Is(err, ledger.ErrInvalidTotalSpots):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, viewmodel.ErrCannotJoin), errors.Is(err, viewmodel.ErrCannotLeave):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	}
	if id := middleware.GetRequestID(ctx); id != "" {
		err = fmt.Errorf("%w (request %s)", err, id)
	}
	return connect.NewError(connect.CodeInternal, err)
}
