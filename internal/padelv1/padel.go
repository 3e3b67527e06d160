// Package padelv1 holds the request/response messages of the padel.v1 RPC
// services. Messages travel as JSON over the Connect protocol.
package padelv1

const (
	MatchServiceName = "padel.v1.MatchService"
	AuthServiceName  = "padel.v1.AuthService"
)

const (
	MatchServiceListMatchesProcedure  = "/padel.v1.MatchService/ListMatches"
	MatchServiceGetMatchProcedure     = "/padel.v1.MatchService/GetMatch"
	MatchServiceCreateMatchProcedure  = "/padel.v1.MatchService/CreateMatch"
	MatchServiceJoinMatchProcedure    = "/padel.v1.MatchService/JoinMatch"
	MatchServiceLeaveMatchProcedure   = "/padel.v1.MatchService/LeaveMatch"
	MatchServiceDismissErrorProcedure = "/padel.v1.MatchService/DismissError"

	AuthServiceSignInProcedure     = "/padel.v1.AuthService/SignIn"
	AuthServiceSignOutProcedure    = "/padel.v1.AuthService/SignOut"
	AuthServiceGetSessionProcedure = "/padel.v1.AuthService/GetSession"
)

// Timestamps are RFC 3339 strings.
type Match struct {
	Id             string   `json:"id"`
	ClubName       string   `json:"club_name"`
	Location       string   `json:"location"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	TotalSpots     int32    `json:"total_spots"`
	AvailableSpots int32    `json:"available_spots"`
	CreatedBy      string   `json:"created_by"`
	CreatedAt      string   `json:"created_at"`
	JoinedUsers    []string `json:"joined_users"`
	Description    string   `json:"description,omitempty"`
	SkillLevel     string   `json:"skill_level,omitempty"`
	IsMine         bool     `json:"is_mine"`
	HasJoined      bool     `json:"has_joined"`
	CanJoin        bool     `json:"can_join"`
}

type ListMatchesRequest struct{}

type ListMatchesResponse struct {
	Matches []*Match `json:"matches"`
	Loading bool     `json:"loading"`
	Error   string   `json:"error,omitempty"`
}

type GetMatchRequest struct {
	MatchId string `json:"match_id"`
}

type GetMatchResponse struct {
	Match *Match `json:"match"`
}

type CreateMatchRequest struct {
	ClubName    string `json:"club_name"`
	Location    string `json:"location"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	TotalSpots  int32  `json:"total_spots"`
	Description string `json:"description,omitempty"`
	SkillLevel  string `json:"skill_level,omitempty"`
}

type CreateMatchResponse struct {
	Match *Match `json:"match"`
}

type JoinMatchRequest struct {
	MatchId string `json:"match_id"`
}

type JoinMatchResponse struct {
	Match *Match `json:"match"`
}

type LeaveMatchRequest struct {
	MatchId string `json:"match_id"`
}

type LeaveMatchResponse struct {
	Match *Match `json:"match"`
}

type DismissErrorRequest struct{}

type DismissErrorResponse struct{}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Session struct {
	LoggedIn bool   `json:"logged_in"`
	UserId   string `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
}

type SignInResponse struct {
	Session *Session `json:"session"`
}

type SignOutRequest struct{}

type SignOutResponse struct {
	Session *Session `json:"session"`
}

type GetSessionRequest struct{}

type GetSessionResponse struct {
	Session *Session `json:"session"`
}
