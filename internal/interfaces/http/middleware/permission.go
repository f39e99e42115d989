package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/infrastructure/auth"
)

// PermissionConfig holds configuration for capability middleware
type PermissionConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredCaps []string)
}

// RequirePermission creates middleware that requires a specific capability.
// This is a convenience function for single capability requirement
func RequirePermission(capability string) gin.HandlerFunc {
	return RequireAnyPermission(capability)
}

// RequirePermissionWithConfig creates middleware with custom config
func RequirePermissionWithConfig(capability string, cfg PermissionConfig) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(cfg, capability)
}

// RequireAnyPermission creates middleware that requires any of the specified capabilities.
// The user must hold at least one of them to proceed
func RequireAnyPermission(capabilities ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, capabilities...)
}

// RequireAnyPermissionWithConfig creates middleware that requires any of the specified capabilities with custom config
func RequireAnyPermissionWithConfig(cfg PermissionConfig, capabilities ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, capabilities, "No authentication claims found")
			return
		}

		if !claims.HasAnyCapability(capabilities...) {
			handlePermissionDenied(c, cfg, capabilities, "User lacks required capability")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Capability check passed",
				zap.String("user_id", claims.UserID),
				zap.Strings("required_any", capabilities),
				zap.Strings("user_capabilities", claims.Capabilities),
			)
		}

		c.Next()
	}
}

// RequireAllPermissions creates middleware that requires all of the specified capabilities
func RequireAllPermissions(capabilities ...string) gin.HandlerFunc {
	return RequireAllPermissionsWithConfig(PermissionConfig{}, capabilities...)
}

// RequireAllPermissionsWithConfig creates middleware that requires all capabilities with custom config
func RequireAllPermissionsWithConfig(cfg PermissionConfig, capabilities ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, capabilities, "No authentication claims found")
			return
		}

		for _, capability := range capabilities {
			if !claims.HasCapability(capability) {
				handlePermissionDenied(c, cfg, capabilities, "User lacks one or more required capabilities")
				return
			}
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("All capabilities check passed",
				zap.String("user_id", claims.UserID),
				zap.Strings("required_all", capabilities),
				zap.Strings("user_capabilities", claims.Capabilities),
			)
		}

		c.Next()
	}
}

// RequireResource creates middleware that checks a capability for a resource
// with the action derived from the HTTP method:
// - GET -> read
// - POST -> create
// - PUT/PATCH -> update
// - DELETE -> delete
func RequireResource(resource string) gin.HandlerFunc {
	return RequireResourceWithConfig(resource, PermissionConfig{})
}

// RequireResourceWithConfig creates middleware with custom config
func RequireResourceWithConfig(resource string, cfg PermissionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := methodToAction(c.Request.Method)
		capability := resource + ":" + action

		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, []string{capability}, "No authentication claims found")
			return
		}

		if !claims.HasCapability(capability) {
			handlePermissionDenied(c, cfg, []string{capability}, "User lacks required capability for resource")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Resource capability check passed",
				zap.String("user_id", claims.UserID),
				zap.String("resource", resource),
				zap.String("action", action),
				zap.String("capability", capability),
			)
		}

		c.Next()
	}
}

// RequireResourceAction creates middleware that checks a specific resource:action capability
func RequireResourceAction(resource, action string) gin.HandlerFunc {
	return RequirePermission(resource + ":" + action)
}

// methodToAction converts HTTP method to capability action
func methodToAction(method string) string {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// handlePermissionDenied handles capability denied scenarios
func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, requiredCaps []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, requiredCaps)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		userCaps := []string{}
		if claims != nil {
			userID = claims.UserID
			userCaps = claims.Capabilities
		}

		cfg.Logger.Warn("Capability denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.Strings("required_capabilities", requiredCaps),
			zap.Strings("user_capabilities", userCaps),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "Access denied: insufficient capabilities",
		},
	})
}

// HasPermission is a helper function to check a capability in handlers
func HasPermission(c *gin.Context, capability string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.HasCapability(capability)
}

// HasAnyPermission is a helper function to check if the user has any of the capabilities
func HasAnyPermission(c *gin.Context, capabilities ...string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.HasAnyCapability(capabilities...)
}

// MustHavePermission aborts the request if the user doesn't hold the capability.
// Returns true if the user has it, false if aborted
func MustHavePermission(c *gin.Context, capability string) bool {
	if !HasPermission(c, capability) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Access denied: insufficient capabilities",
			},
		})
		return false
	}
	return true
}

// CheckPermissionFunc is a function type for custom capability checking
type CheckPermissionFunc func(claims *auth.Claims, c *gin.Context) bool

// RequireCustomPermission creates middleware with a custom check function for
// authorization logic that a single capability string cannot express
func RequireCustomPermission(checkFunc CheckPermissionFunc) gin.HandlerFunc {
	return RequireCustomPermissionWithConfig(checkFunc, PermissionConfig{})
}

// RequireCustomPermissionWithConfig creates custom capability middleware with config
func RequireCustomPermissionWithConfig(checkFunc CheckPermissionFunc, cfg PermissionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, []string{"custom"}, "No authentication claims found")
			return
		}

		if !checkFunc(claims, c) {
			handlePermissionDenied(c, cfg, []string{"custom"}, "Custom capability check failed")
			return
		}

		c.Next()
	}
}
