package auth

import "github.com/ebarkhatov/kbkeeper/models"

// Capability identifies one coarse-grained action subject to a permission
// check. The set is closed: an unknown capability is always denied.
type Capability string

const (
	CapCreateTopic    Capability = "create_topic"
	CapEditTopic      Capability = "edit_topic"
	CapDeleteTopic    Capability = "delete_topic"
	CapViewStats      Capability = "view_stats"
	CapAdminDashboard Capability = "admin_dashboard"
)

// Allow reports whether a user with the given role holds the capability.
// It is a pure function of its inputs; session state is the caller's
// concern. Admins hold every capability, regular users may only create
// topics. Per-topic edit/delete authorization for authors is handled
// separately by CanEditPost/CanDeletePost.
func Allow(role models.Role, capability Capability) bool {
	switch capability {
	case CapCreateTopic:
		return role == models.RoleAdmin || role == models.RoleUser
	case CapEditTopic, CapDeleteTopic, CapViewStats, CapAdminDashboard:
		return role == models.RoleAdmin
	default:
		return false
	}
}
