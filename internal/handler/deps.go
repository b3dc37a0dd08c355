package handler

import (
	"lumeo/internal/app/profile"
	"lumeo/internal/app/state"
	"lumeo/internal/configs"
)

// AppDeps bundles the dependencies handlers need.
type AppDeps struct {
	Config    *configs.AppConfig
	Profiles  *profile.Service
	AvatarOps *state.UserOps
}
