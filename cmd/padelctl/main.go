package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"padel-connect/internal/api"
	"padel-connect/internal/config"
	"padel-connect/internal/constants"
	"padel-connect/internal/domain"
	"padel-connect/internal/identity"
	"padel-connect/internal/padelv1"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
)

const usage = `usage: padelctl <command> [flags]

commands:
  login   [-email addr] [-password pw]
  logout
  whoami
  list
  get     <match-id>
  create  -club name -location addr -start RFC3339 [-duration 90m] [-spots 4] [-skill level] [-description text]
  join    <match-id>
  leave   <match-id>
`

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel).With().Timestamp().Logger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	defer cancel()

	if err := run(ctx, api.NewClient(cfg), os.Args[1:], os.Stdout); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.RequestID != "" {
			logger.Warn().Str("request_id", apiErr.RequestID).Str("code", apiErr.Code).Msg("request failed")
		}
		fmt.Fprintln(os.Stderr, "padelctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *api.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(strings.TrimSpace(usage))
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		email := fs.String("email", identity.DummyUserEmail, "account email")
		password := fs.String("password", "", "account password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		s, err := c.SignIn(ctx, *email, *password)
		if err != nil {
			return err
		}
		return printSession(out, s)

	case "logout":
		s, err := c.SignOut(ctx)
		if err != nil {
			return err
		}
		return printSession(out, s)

	case "whoami":
		s, err := c.GetSession(ctx)
		if err != nil {
			return err
		}
		return printSession(out, s)

	case "list":
		res, err := c.ListMatches(ctx)
		if err != nil {
			return err
		}
		if res.Error != "" {
			fmt.Fprintln(out, "warning:", res.Error)
		}
		return printMatches(out, res.Matches)

	case "get", "join", "leave":
		if len(rest) != 1 {
			return fmt.Errorf("%s needs exactly one match id", cmd)
		}
		var (
			m   *padelv1.Match
			err error
		)
		switch cmd {
		case "get":
			m, err = c.GetMatch(ctx, rest[0])
		case "join":
			m, err = c.JoinMatch(ctx, rest[0])
		case "leave":
			m, err = c.LeaveMatch(ctx, rest[0])
		}
		if err != nil {
			return err
		}
		return printMatch(out, m)

	case "create":
		req, err := parseCreate(rest)
		if err != nil {
			return err
		}
		m, err := c.CreateMatch(ctx, req)
		if err != nil {
			return err
		}
		return printMatch(out, m)
	}

	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

func parseCreate(args []string) (*padelv1.CreateMatchRequest, error) {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	club := fs.String("club", "", "club name")
	location := fs.String("location", "", "club address")
	start := fs.String("start", "", "start time, RFC 3339")
	duration := fs.Duration("duration", 90*time.Minute, "match length")
	spots := fs.Int("spots", constants.DefaultTotalSpots, "total spots including yours")
	skill := fs.String("skill", "", "skill level")
	description := fs.String("description", "", "free text")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	startTime, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		return nil, fmt.Errorf("invalid -start: %w", err)
	}
	if _, err := domain.ParseSkillLevel(*skill); err != nil {
		return nil, err
	}
	if *spots < math.MinInt32 || *spots > math.MaxInt32 {
		return nil, fmt.Errorf("invalid -spots: %d out of range", *spots)
	}

	return &padelv1.CreateMatchRequest{
		ClubName:    *club,
		Location:    *location,
		StartTime:   startTime.Format(time.RFC3339),
		EndTime:     startTime.Add(*duration).Format(time.RFC3339),
		TotalSpots:  int32(*spots),
		Description: *description,
		SkillLevel:  *skill,
	}, nil
}

func printSession(out io.Writer, s *padelv1.Session) error {
	if s == nil || !s.LoggedIn {
		_, err := fmt.Fprintln(out, "not signed in")
		return err
	}
	_, err := fmt.Fprintf(out, "signed in as %s (%s)\n", s.UserName, s.UserId)
	return err
}

func printMatches(out io.Writer, matches []*padelv1.Match) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCLUB\tSTART\tSPOTS\tLEVEL\tSTATUS")
	for _, m := range matches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			m.Id, m.ClubName, m.StartTime, m.AvailableSpots, m.TotalSpots,
			domain.SkillLevel(m.SkillLevel).Label(), status(m))
	}
	return tw.Flush()
}

func printMatch(out io.Writer, m *padelv1.Match) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%s\n", m.Id)
	fmt.Fprintf(tw, "club\t%s\n", m.ClubName)
	fmt.Fprintf(tw, "location\t%s\n", m.Location)
	fmt.Fprintf(tw, "start\t%s\n", m.StartTime)
	fmt.Fprintf(tw, "end\t%s\n", m.EndTime)
	fmt.Fprintf(tw, "spots\t%d of %d free\n", m.AvailableSpots, m.TotalSpots)
	fmt.Fprintf(tw, "level\t%s\n", domain.SkillLevel(m.SkillLevel).Label())
	fmt.Fprintf(tw, "players\t%s\n", strings.Join(append([]string{m.CreatedBy}, m.JoinedUsers...), ", "))
	if m.Description != "" {
		fmt.Fprintf(tw, "description\t%s\n", m.Description)
	}
	fmt.Fprintf(tw, "status\t%s\n", status(m))
	return tw.Flush()
}

func status(m *padelv1.Match) string {
	switch {
	case m.IsMine:
		return "yours"
	case m.HasJoined:
		return "joined"
	case m.CanJoin:
		return "open"
	}
	return "full"
}
