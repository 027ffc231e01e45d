package config

// QueueKeyStruct names the Redis lists used as work queues.
type QueueKeyStruct struct {
	NotificationQueue string
}

var QueueKey = &QueueKeyStruct{
	NotificationQueue: "notification_queue",
}
