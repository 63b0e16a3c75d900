package app

import (
	"database/sql"

	authService "saasbase/internal/auth/service"
	projectService "saasbase/internal/project/service"
	projectStore "saasbase/internal/project/store"
	"saasbase/internal/quota"
	taskService "saasbase/internal/task/service"
	taskStore "saasbase/internal/task/store"
	tenantService "saasbase/internal/tenant/service"
	tenantStore "saasbase/internal/tenant/store"
	userService "saasbase/internal/user/service"
	userStore "saasbase/internal/user/store"
	"saasbase/pkg/platform/audit"
	auditmemory "saasbase/pkg/platform/audit/store/memory"
	auditpostgres "saasbase/pkg/platform/audit/store/postgres"
	"saasbase/pkg/platform/tx"
)

// Storage backends reported by the health endpoint.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type TenantStore interface {
	tenantService.TenantStore
	authService.TenantStore
	quota.LimitsLocker
}

type UserStore interface {
	userService.UserStore
	tenantService.UserStore
	authService.UserStore
	projectService.UserDirectory
	taskService.MemberFinder
	quota.Counter
}

type ProjectStore interface {
	projectService.ProjectStore
	taskService.ProjectFinder
	userService.UserReleaser
	quota.Counter
}

type TaskStore interface {
	taskService.TaskStore
	projectService.TaskStore
	userService.UserReleaser
}

// Stores is one consistent persistence backend together with the
// transaction runner that spans it.
type Stores struct {
	Backend  string
	Tenants  TenantStore
	Users    UserStore
	Projects ProjectStore
	Tasks    TaskStore
	Audit    audit.Store
	Runner   tx.Runner
}

func MemoryStores() Stores {
	return Stores{
		Backend:  BackendMemory,
		Tenants:  tenantStore.NewInMemory(),
		Users:    userStore.NewInMemory(),
		Projects: projectStore.NewInMemory(),
		Tasks:    taskStore.NewInMemory(),
		Audit:    auditmemory.New(),
		Runner:   tx.NewInMemory(),
	}
}

func PostgresStores(db *sql.DB) Stores {
	return Stores{
		Backend:  BackendPostgres,
		Tenants:  tenantStore.NewPostgres(db),
		Users:    userStore.NewPostgres(db),
		Projects: projectStore.NewPostgres(db),
		Tasks:    taskStore.NewPostgres(db),
		Audit:    auditpostgres.New(db),
		Runner:   tx.NewPostgres(db),
	}
}
