// Package fedicomments renders fediverse reply threads as a static HTML
// comment section.
//
// # Quick Start
//
// Fetch a thread, then publish it:
//
//	svc := fedicomments.New()
//
//	thread, err := svc.Thread(ctx, "tech.lgbt", fedicomments.Mastodon, "114032235423688612")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := fedicomments.Publish(ctx, thread, nil, fedicomments.PublishOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("comments.html", []byte(out), 0644)
//
// # Pipeline
//
//  1. Fetch the root post and its replies (Mastodon context endpoint, or a
//     breadth-first walk of Misskey note children).
//  2. Normalize each reply into a Comment. Misskey markup (MFM) goes through
//     the rewrite rules, Markdown rendering and the HTML sanitizer; Mastodon
//     HTML is sanitized as sent. Custom emoji become images.
//  3. Render the comments into a nested node tree, replies under parents,
//     ordered by date.
//
// # Flavors
//
// Servers speak one of two API families, Mastodon or Misskey. Pass the flavor
// explicitly, or pass "" to discover it from the server's nodeinfo document.
//
// # Statistics
//
// Root post counters (likes and boosts) are fetched as background work so
// they never hold up the comments:
//
//	d := fedicomments.NewDispatcher(ctx, logger)
//	stats := svc.StatsInBackground(d, "tech.lgbt", fedicomments.Mastodon, id)
//	// ... fetch and render the thread ...
//	_ = d.Wait()
//	if s, ok := stats.Get(); ok {
//	    // render counters
//	}
//
// # Logging
//
// The library is silent by default. WithLogger accepts any
// logrus.FieldLogger.
package fedicomments
