package app

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/chat"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/config"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/handler"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/objstore"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/session"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/stream"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/sw"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/ws"
)

func Run(cfg *config.Config) {
	ctx := context.Background()

	sessionStore, err := session.NewStore(cfg.SessionDBPath)
	if err != nil {
		log.Fatal(err)
	}
	sess := session.Load(sessionStore)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	messages := stream.NewRedisStore(rdb, cfg.ChatPath)

	objects, err := objstore.NewS3Store(cfg)
	if err != nil {
		log.Fatal(err)
	}

	relay := ws.NewRelay()

	feed := chat.NewFeed(sess, messages, relay)
	composer := chat.NewComposer(sess, messages, objects, relay, relay)
	deleter := chat.NewDeleter(sess, messages, objects, relay, chat.AutoConfirm{}, relay)
	deleter.OnRefresh(func() error { return feed.Subscribe(ctx) })

	worker, err := sw.Open(cfg.CacheDBPath, sw.Options{
		Version:     cfg.CacheVersion,
		Manifest:    shellManifest(cfg),
		NetworkOnly: networkOnlyRules(cfg),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer worker.Close()

	if err := worker.Activate(); err != nil {
		log.Printf("sw: failed to collect stale cache generations: %v", err)
	}

	if err := feed.Subscribe(ctx); err != nil {
		log.Fatalf("Failed to subscribe to message stream: %v", err)
	}

	sessionHandler := handler.NewSessionHandler(sess)
	chatHandler := handler.NewChatHandler(composer, deleter)

	server := NewServer(sessionHandler, chatHandler, relay, worker, cfg.WebDir)

	go warmCache(ctx, worker, "http://localhost:"+cfg.ServerPort)

	server.Run(cfg.ServerPort)
}

// shellManifest lists the static resources precached at install time:
// the HTML shell, styling and the client script, plus the external
// font stylesheet the shell links.
func shellManifest(cfg *config.Config) []string {
	base := "http://localhost:" + cfg.ServerPort
	return []string{
		base + "/",
		base + "/index.html",
		base + "/chat.html",
		base + "/style.css",
		base + "/app.js",
		"https://fonts.googleapis.com/css2?family=Poppins:wght@400;500;600&display=swap",
	}
}

// networkOnlyRules marks the live-data endpoints that must never be
// served stale: the chat API and socket on the gateway itself, and the
// object store's API and binary hosts.
func networkOnlyRules(cfg *config.Config) []sw.NetworkRule {
	rules := []sw.NetworkRule{
		{PathContains: "/api/"},
		{PathContains: "/ws"},
	}
	if host := hostOf(cfg.S3Endpoint); host != "" {
		rules = append(rules, sw.NetworkRule{HostContains: host})
	}
	if host := hostOf(cfg.S3PublicBaseURL); host != "" {
		rules = append(rules, sw.NetworkRule{HostContains: host})
	}
	return rules
}

// warmCache waits for the server to accept requests, then installs the
// cache generation. Install failures are logged only; the gateway
// serves from disk on cache misses either way.
func warmCache(ctx context.Context, worker *sw.Worker, baseURL string) {
	client := &http.Client{Timeout: 2 * time.Second}
	for i := 0; i < 20; i++ {
		resp, err := client.Get(baseURL + "/")
		if err == nil {
			resp.Body.Close()
			worker.Install(ctx)
			return
		}
		time.Sleep(250 * time.Millisecond)
	}
	log.Printf("sw: server never became reachable at %s, skipping install", baseURL)
}

func hostOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
