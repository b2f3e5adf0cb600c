package votes

import (
	"strings"

	"convonest/models"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Toggle applies one vote action by email to a copy of the post and returns
// it. Toggling the same direction twice is a net no-op, and an email ends up
// in at most one of the two voter sets: switching direction removes the old
// vote and adds the new one in a single edit.
func Toggle(p models.Post, email string, d Direction) models.Post {
	email = strings.ToLower(email)

	p.UpvoteBy = append([]string(nil), p.UpvoteBy...)
	p.DownvoteBy = append([]string(nil), p.DownvoteBy...)

	inUp := contains(p.UpvoteBy, email)
	inDown := contains(p.DownvoteBy, email)

	switch d {
	case Up:
		if inUp {
			p.UpvoteBy = remove(p.UpvoteBy, email)
			p.UpVote--
			return p
		}
		p.UpvoteBy = append(p.UpvoteBy, email)
		p.UpVote++
		if inDown {
			p.DownvoteBy = remove(p.DownvoteBy, email)
			p.DownVote--
		}
	case Down:
		if inDown {
			p.DownvoteBy = remove(p.DownvoteBy, email)
			p.DownVote--
			return p
		}
		p.DownvoteBy = append(p.DownvoteBy, email)
		p.DownVote++
		if inUp {
			p.UpvoteBy = remove(p.UpvoteBy, email)
			p.UpVote--
		}
	}

	return p
}

func contains(set []string, email string) bool {
	for _, e := range set {
		if strings.ToLower(e) == email {
			return true
		}
	}
	return false
}

func remove(set []string, email string) []string {
	out := set[:0]
	for _, e := range set {
		if strings.ToLower(e) != email {
			out = append(out, e)
		}
	}
	return out
}
