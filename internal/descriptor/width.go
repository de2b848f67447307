package descriptor

import (
	"strings"

	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
)

// columnWidth picks a fixed pixel width for columns whose content length is
// predictable; 0 means auto. Presentation heuristic only: identifier and date
// columns stay narrower than free text.
func columnWidth(name string, kind fieldmeta.ControlKind) int {
	if name == "_id" || name == "id" {
		return 180
	}
	if strings.Contains(name, "Time") || strings.Contains(name, "Date") {
		return 160
	}
	if name == "status" || name == "gender" || name == "deleted" {
		return 80
	}
	if kind == fieldmeta.KindText || kind == fieldmeta.KindTextarea {
		switch {
		case name == "nickname" || name == "username":
			return 120
		case name == "phone" || name == "email":
			return 140
		case name == "realName":
			return 100
		case strings.Contains(name, "address") ||
			name == "province" || name == "city" || name == "district":
			return 120
		case name == "openid" || name == "unionid":
			return 200
		}
	}
	if kind == fieldmeta.KindDigit {
		return 100
	}
	return 0
}
