// Package api is a fasthttp client for the padel.v1 Connect services.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"padel-connect/internal/config"
	"padel-connect/internal/constants"
	"padel-connect/internal/padelv1"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// Error is a Connect error returned by the server.
type Error struct {
	Status    int    `json:"-"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"-"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (http %d)", e.Code, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type Client struct {
	baseURL string
	client  *fasthttp.Client
}

func NewClient(cfg *config.Config) *Client {
	return NewClientWithURL(cfg.APIBaseURL)
}

func NewClientWithURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         constants.APIClientTimeout,
			WriteTimeout:        constants.APIClientTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*padelv1.Session, error) {
	res, err := doRequest[padelv1.SignInRequest, padelv1.SignInResponse](ctx, c, padelv1.AuthServiceSignInProcedure, &padelv1.SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return res.Session, nil
}

func (c *Client) SignOut(ctx context.Context) (*padelv1.Session, error) {
	res, err := doRequest[padelv1.SignOutRequest, padelv1.SignOutResponse](ctx, c, padelv1.AuthServiceSignOutProcedure, &padelv1.SignOutRequest{})
	if err != nil {
		return nil, err
	}
	return res.Session, nil
}

func (c *Client) GetSession(ctx context.Context) (*padelv1.Session, error) {
	res, err := doRequest[padelv1.GetSessionRequest, padelv1.GetSessionResponse](ctx, c, padelv1.AuthServiceGetSessionProcedure, &padelv1.GetSessionRequest{})
	if err != nil {
		return nil, err
	}
	return res.Session, nil
}

func (c *Client) ListMatches(ctx context.Context) (*padelv1.ListMatchesResponse, error) {
	return doRequest[padelv1.ListMatchesRequest, padelv1.ListMatchesResponse](ctx, c, padelv1.MatchServiceListMatchesProcedure, &padelv1.ListMatchesRequest{})
}

func (c *Client) GetMatch(ctx context.Context, id string) (*padelv1.Match, error) {
	res, err := doRequest[padelv1.GetMatchRequest, padelv1.GetMatchResponse](ctx, c, padelv1.MatchServiceGetMatchProcedure, &padelv1.GetMatchRequest{MatchId: id})
	if err != nil {
		return nil, err
	}
	return res.Match, nil
}

func (c *Client) CreateMatch(ctx context.Context, req *padelv1.CreateMatchRequest) (*padelv1.Match, error) {
	res, err := doRequest[padelv1.CreateMatchRequest, padelv1.CreateMatchResponse](ctx, c, padelv1.MatchServiceCreateMatchProcedure, req)
	if err != nil {
		return nil, err
	}
	return res.Match, nil
}

func (c *Client) JoinMatch(ctx context.Context, id string) (*padelv1.Match, error) {
	res, err := doRequest[padelv1.JoinMatchRequest, padelv1.JoinMatchResponse](ctx, c, padelv1.MatchServiceJoinMatchProcedure, &padelv1.JoinMatchRequest{MatchId: id})
	if err != nil {
		return nil, err
	}
	return res.Match, nil
}

func (c *Client) LeaveMatch(ctx context.Context, id string) (*padelv1.Match, error) {
	res, err := doRequest[padelv1.LeaveMatchRequest, padelv1.LeaveMatchResponse](ctx, c, padelv1.MatchServiceLeaveMatchProcedure, &padelv1.LeaveMatchRequest{MatchId: id})
	if err != nil {
		return nil, err
	}
	return res.Match, nil
}

func (c *Client) DismissError(ctx context.Context) error {
	_, err := doRequest[padelv1.DismissErrorRequest, padelv1.DismissErrorResponse](ctx, c, padelv1.MatchServiceDismissErrorProcedure, &padelv1.DismissErrorRequest{})
	return err
}

// doRequest performs one Connect unary call with a JSON body.
func doRequest[Req, Res any](ctx context.Context, client *Client, procedure string, msg *Req) (*Res, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(client.baseURL + procedure)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Connect-Protocol-Version", "1")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.APIClientTimeout)
	}
	if err := client.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", procedure, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		apiErr := &Error{
			Status:    resp.StatusCode(),
			RequestID: string(resp.Header.Peek("X-Request-ID")),
		}
		if err := json.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = "unknown"
		}
		return nil, apiErr
	}

	var result Res
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", procedure, err)
	}
	return &result, nil
}
