package models

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

const (
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

const (
	// BookingsCacheTTL время жизни кэша списка заявок
	BookingsCacheTTL = 60 // 1 минута в секундах

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 1000

	// DefaultBackupInterval интервал бэкапов по умолчанию
	DefaultBackupInterval = 24 * 60 * 60 // 24 часа в секундах
)
