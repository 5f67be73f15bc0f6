// Package consts contains constants for the archive domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart           = Command{Name: "start", Description: "Start archiving files posted in this chat"}
	CommandStop            = Command{Name: "stop", Description: "Stop archiving"}
	CommandInfo            = Command{Name: "info", Description: "Show current settings"}
	CommandHelp            = Command{Name: "help", Description: "Show help message"}
	CommandSetName         = Command{Name: "set_name", Description: "Set the chat name and target folder"}
	CommandVerbose         = Command{Name: "verbose", Description: "Complain about duplicates and compressed images"}
	CommandAllowDuplicates = Command{Name: "allow_duplicates", Description: "Allow files with duplicate names"}
	CommandSortByUser      = Command{Name: "sort_by_user", Description: "Sort incoming files by sender"}
	CommandAccept          = Command{Name: "accept", Description: "Set the accepted media types"}
	CommandZip             = Command{Name: "zip", Description: "Bundle all archived files and upload them"}
	CommandClearHistory    = Command{Name: "clear_history", Description: "Delete all archived files of this chat"}
	CommandScanChat        = Command{Name: "scan_chat", Description: "Scan the whole chat history for files"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandStop,
	CommandInfo,
	CommandHelp,
	CommandSetName,
	CommandVerbose,
	CommandAllowDuplicates,
	CommandSortByUser,
	CommandAccept,
	CommandZip,
	CommandClearHistory,
	CommandScanChat,
}
