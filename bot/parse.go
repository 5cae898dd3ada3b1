package bot

import (
	"errors"
	"strings"
)

var (
	errFullNameFormat = errors.New("bot: full name must be 'name surname'")
	errScheduleFormat = errors.New("bot: schedule line must be 'day:lesson1,lesson2,...'")
	errHomeworkFormat = errors.New("bot: homework line must be 'day:lesson:text'")
)

type fullName struct {
	name    string
	surname string
}

// parseFullName splits registration input on the first space.
func parseFullName(text string) (fullName, error) {
	name, surname, ok := strings.Cut(text, " ")
	if !ok {
		return fullName{}, errFullNameFormat
	}
	return fullName{name: name, surname: surname}, nil
}

type scheduleLine struct {
	day     string
	lessons []string
}

// parseScheduleLine decodes "day:lesson1,lesson2,...". The day key is
// lowercased, lesson names are kept verbatim.
func parseScheduleLine(text string) (scheduleLine, error) {
	day, rest, ok := strings.Cut(text, ":")
	if !ok {
		return scheduleLine{}, errScheduleFormat
	}
	return scheduleLine{
		day:     strings.ToLower(day),
		lessons: strings.Split(rest, ","),
	}, nil
}

type homeworkLine struct {
	day    string
	lesson string
	text   string
}

// parseHomeworkLine decodes "day:lesson:text". The text part may itself
// contain colons. Day and lesson are lowercased so that authored entries
// line up with the callback grammar used by the homework menus.
func parseHomeworkLine(text string) (homeworkLine, error) {
	parts := strings.SplitN(text, ":", 3)
	if len(parts) < 3 {
		return homeworkLine{}, errHomeworkFormat
	}
	return homeworkLine{
		day:    strings.ToLower(parts[0]),
		lesson: strings.ToLower(parts[1]),
		text:   parts[2],
	}, nil
}
