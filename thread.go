package fedicomments

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-fedicomments/internal/fediapi"
)

// Thread fetches the root post and its replies. Only a failure to read the
// root post is an error (wrapping ErrRootPost); replies that cannot be
// fetched are logged and left out. An empty flavor is discovered first.
func (s *Service) Thread(ctx context.Context, instance string, flavor Flavor, postID string) (*Thread, error) {
	if postID == "" {
		return nil, ErrEmptyPostID
	}
	flavor, err := s.resolveFlavor(ctx, instance, flavor)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{"instance": instance, "post": postID, "flavor": flavor})
	if flavor == Mastodon {
		return s.mastodonThread(ctx, log, instance, postID)
	}
	return s.misskeyThread(ctx, log, instance, postID)
}

func (s *Service) mastodonThread(ctx context.Context, log logrus.FieldLogger, instance, postID string) (*Thread, error) {
	status, err := s.client.Status(ctx, instance, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootPost, err)
	}
	thread := &Thread{
		Instance: instance,
		Flavor:   Mastodon,
		Root:     s.normalizer.Mastodon(ctx, instance, status),
	}

	tc, err := s.client.StatusContext(ctx, instance, postID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).Warn("fetching replies failed")
		return thread, nil
	}

	thread.Replies = make([]Comment, 0, len(tc.Descendants))
	for i := range tc.Descendants {
		thread.Replies = append(thread.Replies, s.normalizer.Mastodon(ctx, instance, &tc.Descendants[i]))
	}
	log.WithField("replies", len(thread.Replies)).Debug("fetched thread")
	return thread, nil
}

func (s *Service) misskeyThread(ctx context.Context, log logrus.FieldLogger, instance, postID string) (*Thread, error) {
	note, err := s.client.Note(ctx, instance, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootPost, err)
	}

	notes := s.walkChildren(ctx, log, instance, postID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Normalizing a note may resolve emoji over the network.
	replies := make([]Comment, len(notes))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range notes {
		g.Go(func() error {
			replies[i] = s.normalizer.Misskey(ctx, instance, &notes[i])
			return nil
		})
	}
	_ = g.Wait()

	log.WithField("replies", len(replies)).Debug("fetched thread")
	return &Thread{
		Instance: instance,
		Flavor:   Misskey,
		Root:     s.normalizer.Misskey(ctx, instance, note),
		Replies:  replies,
	}, nil
}

// walkChildren collects replies breadth-first, one request per note, down
// to maxDepth levels. Notes at one level are fetched concurrently. A failed
// request drops that subtree only.
func (s *Service) walkChildren(ctx context.Context, log logrus.FieldLogger, instance, rootID string) []fediapi.Note {
	seen := map[string]bool{rootID: true}
	var all []fediapi.Note

	level := []string{rootID}
	for depth := 0; depth < s.cfg.maxDepth && len(level) > 0; depth++ {
		results := make([][]fediapi.Note, len(level))

		var g errgroup.Group
		g.SetLimit(s.workers)
		for i, id := range level {
			g.Go(func() error {
				children, err := s.client.Children(ctx, instance, id)
				if err != nil {
					log.WithError(err).WithField("note", id).Warn("fetching replies failed")
					return nil
				}
				results[i] = children
				return nil
			})
		}
		_ = g.Wait()
		if ctx.Err() != nil {
			return all
		}

		var next []string
		for _, children := range results {
			for _, n := range children {
				if n.ID == "" || seen[n.ID] {
					continue
				}
				seen[n.ID] = true
				all = append(all, n)
				next = append(next, n.ID)
			}
		}
		level = next
	}

	if len(level) > 0 {
		log.WithField("max_depth", s.cfg.maxDepth).Debug("reply depth limit reached")
	}
	return all
}
