package commands

import "compliance/internal/core/domain/services"

var (
	policy   = services.NewAccessPolicy()
	assigner = services.NewOrderAssigner()
)
