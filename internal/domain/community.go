package domain

// Community is a facility. The designated RN recorded here is the default
// signer-of-record for any delegation created in the community.
type Community struct {
	CommunityID string `json:"community_id"`
	Name        string `json:"name"`

	// Designated RN (delegating nurse)
	RNName  string `json:"rn_name"`
	RNPhone string `json:"rn_phone"`
	RNEmail string `json:"rn_email"`

	// Admin contact
	AdminName  string `json:"admin_name"`
	AdminPhone string `json:"admin_phone"`
}
