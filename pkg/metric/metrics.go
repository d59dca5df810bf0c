package metric

import (
	"net/http"
	"time"
)

//go:generate mockgen -source=metrics.go -destination=mock/metrics.go -package=mock_metric

type (
	Factory interface {
		HTTP() HTTP
		Gateway() Gateway
		Cache() Cache
		Publisher() Publisher
		Handler() http.Handler
	}

	HTTP interface {
		Request(method, path string, status int, duration time.Duration)
		SlowRequest(method, path string, status int, duration time.Duration)
	}

	Gateway interface {
		Call(profile string, status int, duration time.Duration)
		TransportError(profile string, reason string)
		Outcome(profile string, kind string)
	}

	Cache interface {
		Hit(cacheType string)
		Miss(cacheType string)
		Eviction(cacheType string, reason string)
		Size(cacheType string, size int)
	}

	Publisher interface {
		Published(topic string)
		Failed(topic string, reason string)
		Duplicate(source string)
	}
)
