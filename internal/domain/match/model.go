package match

import "strings"

const (
	FormatBestOf1  = "BO1"
	FormatBlockOf3 = "BLOCK3"
	FormatBestOf3  = "BO3"
	FormatBestOf5  = "BO5"
	FormatBestOf7  = "BO7"
)

// Match is one series between two teams.
type Match struct {
	ID           int64
	SeasonID     int64
	Round        int
	Format       string
	BlueTeamID   int64
	RedTeamID    int64
	WinnerTeamID *int64
}

func NormalizeFormat(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func IsValidFormat(value string) bool {
	switch NormalizeFormat(value) {
	case FormatBestOf1, FormatBlockOf3, FormatBestOf3, FormatBestOf5, FormatBestOf7:
		return true
	default:
		return false
	}
}

// RequiredWins returns the win count that decides a series of the given
// format. Unknown formats decide on a single win.
func RequiredWins(format string) int {
	switch NormalizeFormat(format) {
	case FormatBestOf1:
		return 1
	case FormatBlockOf3, FormatBestOf3:
		return 2
	case FormatBestOf5:
		return 3
	case FormatBestOf7:
		return 4
	default:
		return 1
	}
}

// MaxGames is the ceiling on recorded games for a series of the given
// format; once reached no further game is provisioned.
func MaxGames(format string) int {
	return 2*RequiredWins(format) - 1
}

func (m *Match) IsDecided() bool {
	return m.WinnerTeamID != nil
}
