package dashboard

import "context"

// DefaultOrgID is the organization used until real identity resolution exists.
const DefaultOrgID = 1

// OrgResolver picks the organization whose dashboard is shown.
type OrgResolver interface {
	OrganizationID(ctx context.Context) (int, error)
}

// FixedOrg always resolves to the same organization.
type FixedOrg int

func (f FixedOrg) OrganizationID(context.Context) (int, error) {
	if f <= 0 {
		return 0, ErrNoOrganization
	}
	return int(f), nil
}
