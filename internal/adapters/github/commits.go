package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/services/identity/domain"
)

const commitAuthorsQuery = `query($owner: String!, $name: String!, $oid: GitObjectID!) {
  repository(owner: $owner, name: $name) {
    object(oid: $oid) {
      ... on Commit {
        authors(first: 100) {
          nodes { name email user { login avatarUrl } }
        }
      }
    }
  }
}`

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type commitAuthorsResponse struct {
	Data struct {
		Repository *struct {
			Object *struct {
				Authors struct {
					Nodes []authorNode `json:"nodes"`
				} `json:"authors"`
			} `json:"object"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors"`
}

type authorNode struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	User  *struct {
		Login     string `json:"login"`
		AvatarURL string `json:"avatarUrl"`
	} `json:"user"`
}

var _ domain.AccountsAPI = (*Client)(nil)

// CommitAccounts lists the authors GitHub associates with a commit, co-authors included
// An unknown repository or commit yields no accounts rather than an error
func (c *Client) CommitAccounts(ctx context.Context, repo domain.Repo, sha string) ([]domain.Account, error) {
	body, err := json.Marshal(gqlRequest{
		Query:     commitAuthorsQuery,
		Variables: map[string]any{"owner": repo.Owner, "name": repo.Name, "oid": sha},
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "github encode commit authors query")
	}

	resp, err := c.Do(ctx, http.MethodPost, "/graphql", body)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Msg("github close body failed")
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "github read commit authors")
	}
	var out commitAuthorsResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "github decode commit authors")
	}

	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			if e.Type == "NOT_FOUND" {
				return nil, nil
			}
			msgs = append(msgs, e.Message)
		}
		return nil, perr.Newf(perr.ErrorCodeUpstream, "github graphql: %s", strings.Join(msgs, "; "))
	}

	r := out.Data.Repository
	if r == nil || r.Object == nil {
		return nil, nil
	}
	accounts := make([]domain.Account, 0, len(r.Object.Authors.Nodes))
	for _, n := range r.Object.Authors.Nodes {
		a := domain.Account{Name: n.Name, Email: n.Email}
		if n.User != nil && n.User.Login != "" {
			a.User = &domain.AccountUser{Login: n.User.Login, AvatarURL: n.User.AvatarURL}
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}
