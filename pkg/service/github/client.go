package github

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// ErrUserNotFound is returned when a login does not resolve to a GitHub user
var ErrUserNotFound = goerr.New("github user not found")

type client struct {
	gql *githubv4.Client
}

var _ interfaces.GitHubClient = &client{}

// New creates a GitHub client using GitHub App authentication for the
// activity queries. privateKey can be a PEM string or a file path to a
// PEM file.
func New(appID, installationID int64, privateKey string) (interfaces.GitHubClient, error) {
	var key []byte

	// Try reading as file path first
	// #nosec G304 -- path comes from CLI flag, not user input
	if data, err := os.ReadFile(privateKey); err == nil {
		key = data
	} else {
		// Treat as PEM string
		key = []byte(privateKey)
	}

	tr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	httpClient := &http.Client{Transport: tr}
	gql := githubv4.NewClient(httpClient)

	return &client{gql: gql}, nil
}

// NewWithToken creates a GitHub client authenticated with a personal or
// OAuth access token. Used by local development where no App exists.
func NewWithToken(token string) interfaces.GitHubClient {
	return &client{gql: tokenClient(token)}
}

func tokenClient(token string) *githubv4.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)
	return githubv4.NewClient(httpClient)
}

type activityQuery struct {
	User struct {
		DatabaseID              githubv4.Int
		ContributionsCollection struct {
			ContributionCalendar struct {
				TotalContributions githubv4.Int
				Weeks              []struct {
					ContributionDays []struct {
						Date              githubv4.String
						ContributionCount githubv4.Int
					}
				}
			}
		}
	} `graphql:"user(login: $login)"`
}

// FetchActivity retrieves the contribution calendar of a user and derives
// the last activity timestamp and current streak from it.
func (c *client) FetchActivity(ctx context.Context, username types.Username) (*model.Activity, error) {
	var q activityQuery
	variables := map[string]interface{}{
		"login": githubv4.String(username),
	}

	if err := c.gql.Query(ctx, &q, variables); err != nil {
		if isNotResolved(err) {
			return nil, goerr.Wrap(ErrUserNotFound, "failed to fetch activity", goerr.V("username", username))
		}
		return nil, goerr.Wrap(err, "failed to fetch activity", goerr.V("username", username))
	}

	activity := &model.Activity{
		Username:  username,
		FetchedAt: time.Now().UTC(),
	}

	total := int(q.User.ContributionsCollection.ContributionCalendar.TotalContributions)
	activity.TotalContributions = &total

	// Flatten the calendar into chronological days
	var days []contributionDay
	for _, week := range q.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			date, err := time.Parse("2006-01-02", string(day.Date))
			if err != nil {
				return nil, goerr.Wrap(err, "failed to parse contribution date", goerr.V("date", day.Date))
			}
			days = append(days, contributionDay{date: date, count: int(day.ContributionCount)})
		}
	}

	if last, ok := lastActiveDay(days); ok {
		activity.LastActivityAt = &last
		streak := currentStreak(days)
		activity.CurrentStreakDays = &streak
	}

	return activity, nil
}

type contributionDay struct {
	date  time.Time
	count int
}

func lastActiveDay(days []contributionDay) (time.Time, bool) {
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].count > 0 {
			return days[i].date, true
		}
	}
	return time.Time{}, false
}

// currentStreak counts consecutive active days ending at the most recent
// active day. A streak broken only by today still counts.
func currentStreak(days []contributionDay) int {
	i := len(days) - 1
	for i >= 0 && days[i].count == 0 {
		i--
	}

	streak := 0
	for i >= 0 && days[i].count > 0 {
		streak++
		i--
	}
	return streak
}

type followRelationQuery struct {
	User struct {
		ViewerIsFollowing githubv4.Boolean
		IsFollowingViewer githubv4.Boolean
	} `graphql:"user(login: $login)"`
}

// FetchFollowRelation resolves the follow relation between the token
// owner and a recipient. The query runs as the sender, so the viewer
// fields describe the sender's side of the edge.
func (c *client) FetchFollowRelation(ctx context.Context, accessToken string, recipient types.Username) (types.FollowRelation, error) {
	var q followRelationQuery
	variables := map[string]interface{}{
		"login": githubv4.String(recipient),
	}

	if err := tokenClient(accessToken).Query(ctx, &q, variables); err != nil {
		if isNotResolved(err) {
			return types.FollowRelationNone, goerr.Wrap(ErrUserNotFound, "failed to fetch follow relation", goerr.V("recipient", recipient))
		}
		return types.FollowRelationNone, goerr.Wrap(err, "failed to fetch follow relation", goerr.V("recipient", recipient))
	}

	return types.NewFollowRelation(bool(q.User.ViewerIsFollowing), bool(q.User.IsFollowingViewer)), nil
}

type viewerQuery struct {
	Viewer struct {
		DatabaseID githubv4.Int
		Login      githubv4.String
	}
}

// FetchAuthenticatedUser retrieves the identity behind an OAuth token
func (c *client) FetchAuthenticatedUser(ctx context.Context, accessToken string) (types.GitHubUserID, types.Username, error) {
	var q viewerQuery
	if err := tokenClient(accessToken).Query(ctx, &q, nil); err != nil {
		return 0, "", goerr.Wrap(err, "failed to fetch authenticated user")
	}

	username, err := types.ParseUsername(string(q.Viewer.Login))
	if err != nil {
		return 0, "", goerr.Wrap(err, "invalid login from GitHub", goerr.V("login", q.Viewer.Login))
	}

	return types.GitHubUserID(q.Viewer.DatabaseID), username, nil
}

func isNotResolved(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Could not resolve to a User")
}
