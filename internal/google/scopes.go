package google

import (
	classroom "google.golang.org/api/classroom/v1"
)

// ClassroomScopes are the OAuth scopes duesync requests. Changing them
// invalidates cached credentials; delete the token file to log in again.
var ClassroomScopes = []string{
	classroom.ClassroomCoursesReadonlyScope,
	classroom.ClassroomCourseworkMeScope,
}
