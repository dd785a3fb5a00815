package intune

// Application is a mobile application in the device app management surface.
// It is an immutable snapshot identified by ID.
type Application struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	ODataType   string `json:"@odata.type"`
}

// Assignment scopes the deployment of one application to a single target.
type Assignment struct {
	Target AssignmentTarget `json:"target"`
}

// AssignmentTarget references the group an assignment deploys to.
type AssignmentTarget struct {
	ODataType string `json:"@odata.type"`
	GroupID   string `json:"groupId"`
}
