package ports

import "github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/mq"

type EventPublisher interface {
	Publish(e mq.Event)
}
