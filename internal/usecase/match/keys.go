package match

import "strings"

// Cache key namespaces. The string shapes are a stable contract shared
// with external tooling; do not change them.
const (
	pairKeyPrefix     = "score:"
	studentListPrefix = "list:student:"
	projectListPrefix = "list:project:"

	// Reverse-index namespaces recording ranked-list membership so that
	// invalidation can target only the lists that contain a mutated
	// entity instead of wiping a whole namespace.
	studentMembershipPrefix = "idx:student:"
	projectMembershipPrefix = "idx:project:"
)

func pairKey(studentID, projectID string) string {
	return pairKeyPrefix + studentID + ":" + projectID
}

func studentListKey(studentID string) string {
	return studentListPrefix + studentID
}

func projectListKey(projectID string) string {
	return projectListPrefix + projectID
}

// studentPairPattern matches every pair key for one student.
func studentPairPattern(studentID string) string {
	return pairKeyPrefix + studentID + ":*"
}

// projectPairPattern matches every pair key for one project. The student
// id occupies the key prefix, so this is a scan, not a prefix delete.
func projectPairPattern(projectID string) string {
	return pairKeyPrefix + "*:" + projectID
}

// studentMembershipKey marks that project P's candidate list contains
// student S.
func studentMembershipKey(studentID, projectID string) string {
	return studentMembershipPrefix + studentID + ":plist:" + projectID
}

// projectMembershipKey marks that student S's recommendation list contains
// project P.
func projectMembershipKey(projectID, studentID string) string {
	return projectMembershipPrefix + projectID + ":slist:" + studentID
}

// trailingID extracts the last colon-separated segment of a key.
func trailingID(key string) string {
	idx := strings.LastIndex(key, ":")
	if idx < 0 || idx == len(key)-1 {
		return ""
	}
	return key[idx+1:]
}
