// Package review offers a to-be-confirmed handoff into a review request
// between a feature branch and its phase branch.
//
// The prompter never mutates anything: when the remote is a recognizable
// hosted repository it builds a deterministic compare URL, otherwise it
// reports the branch pair for manual action.
package review

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/phasectl/internal/prompt"
	"github.com/fyrsmithlabs/phasectl/pkg/git"
)

// OutcomeKind classifies the result of an offer.
type OutcomeKind string

const (
	// Offered means the user accepted; Outcome.URL holds the compare URL
	// when one could be derived.
	Offered OutcomeKind = "offered"

	// Declined means the user turned the offer down.
	Declined OutcomeKind = "declined"

	// RemoteUnknown means no hosted-repository URL could be resolved;
	// the caller prints the branch pair for manual action.
	RemoteUnknown OutcomeKind = "remote_unknown"
)

// Outcome is the result of offering a review handoff.
type Outcome struct {
	Kind OutcomeKind
	URL  string
	From string
	To   string
}

// Prompter offers review handoffs.
type Prompter struct {
	vcs     git.Client
	confirm prompt.Confirmer
	logger  *zap.Logger
}

// New builds a Prompter. A nil logger is replaced with a nop.
func New(vcs git.Client, confirm prompt.Confirmer, logger *zap.Logger) *Prompter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prompter{vcs: vcs, confirm: confirm, logger: logger}
}

// Offer proposes a review request from the feature branch into the phase
// branch. Declining is a normal outcome, not an error.
func (p *Prompter) Offer(from, to, workflowID string) (Outcome, error) {
	remote, err := p.vcs.RemoteURL()
	if err != nil || remote == "" {
		if err != nil {
			p.logger.Warn("could not resolve remote", zap.Error(err))
		}
		return Outcome{Kind: RemoteUnknown, From: from, To: to}, nil
	}

	url, ok := CompareURL(remote, to, from)
	if !ok {
		p.logger.Debug("remote is not a recognized host", zap.String("remote", remote))
		return Outcome{Kind: RemoteUnknown, From: from, To: to}, nil
	}

	accepted, err := p.confirm.Confirm(
		fmt.Sprintf("Open a review request for %s into %s?", from, to), true)
	if err != nil {
		return Outcome{}, fmt.Errorf("confirming review offer: %w", err)
	}
	if !accepted {
		return Outcome{Kind: Declined, From: from, To: to}, nil
	}

	p.logger.Info("review handoff accepted",
		zap.String("workflow", workflowID),
		zap.String("url", url),
	)
	return Outcome{Kind: Offered, URL: url, From: from, To: to}, nil
}

// ParseRemote extracts host, owner, and repository name from an https,
// ssh://, or scp-like git remote URL.
func ParseRemote(remote string) (host, owner, repo string, ok bool) {
	s := strings.TrimSpace(remote)
	s = strings.TrimSuffix(s, "/")

	var path string
	switch {
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "ssh://"):
		s = s[strings.Index(s, "://")+3:]
		if at := strings.Index(s, "@"); at >= 0 {
			s = s[at+1:]
		}
		slash := strings.Index(s, "/")
		if slash < 0 {
			return "", "", "", false
		}
		host, path = s[:slash], s[slash+1:]
		// an explicit port is not part of the host name
		if colon := strings.Index(host, ":"); colon >= 0 {
			host = host[:colon]
		}
	case strings.Contains(s, "@") && strings.Contains(s, ":"):
		// scp-like: git@host:owner/repo.git
		s = s[strings.Index(s, "@")+1:]
		colon := strings.Index(s, ":")
		if colon < 0 {
			return "", "", "", false
		}
		host, path = s[:colon], s[colon+1:]
	default:
		return "", "", "", false
	}

	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", "", "", false
	}
	owner = parts[0]
	repo = strings.TrimSuffix(parts[1], ".git")
	if host == "" || owner == "" || repo == "" {
		return "", "", "", false
	}
	return host, owner, repo, true
}

// CompareURL builds the hosted comparison URL between base and head for
// known hosts. ok is false for anything unrecognized.
func CompareURL(remote, base, head string) (string, bool) {
	host, owner, repo, ok := ParseRemote(remote)
	if !ok {
		return "", false
	}

	switch host {
	case "github.com":
		return fmt.Sprintf("https://github.com/%s/%s/compare/%s...%s", owner, repo, base, head), true
	case "gitlab.com":
		return fmt.Sprintf("https://gitlab.com/%s/%s/-/compare/%s...%s", owner, repo, base, head), true
	case "bitbucket.org":
		return fmt.Sprintf("https://bitbucket.org/%s/%s/branches/compare/%s%%0D%s", owner, repo, head, base), true
	default:
		return "", false
	}
}
