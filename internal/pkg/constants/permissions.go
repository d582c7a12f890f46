package constants

const (
	ViewData       = "view_data"
	Invest         = "invest"
	VerifyPayment  = "verify_payment"
	ManageStartup  = "manage_startup"
	PostUpdate     = "post_update"
	UploadDocument = "upload_document"
	RemoveUser     = "remove_user"
)

// MajorInvestorGoalPercent: an investor counts as "major" for a startup
// once their completed contributions reach this share of the funding goal.
const MajorInvestorGoalPercent = 5

// PermissionRoles maps each permission to roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewData:       {RoleStartup, RoleInvestor, RoleAdmin},
	Invest:         {RoleInvestor},
	VerifyPayment:  {RoleStartup},
	ManageStartup:  {RoleStartup},
	PostUpdate:     {RoleStartup},
	UploadDocument: {RoleStartup},
	RemoveUser:     {RoleAdmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
