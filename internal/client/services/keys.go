// Package services contains the application services of the client: the
// session state manager, the credential validator, and the per-user analysis
// history store. All durable state goes through the kv repository.
package services

// Logical store keys. The layout is fixed: older installs already hold data
// under these names.
const (
	keyUserData    = "userData"
	keyUserToken   = "userToken"
	keyCurrentUser = "currentUser"
	keyHistory     = "analysisHistory"
)
