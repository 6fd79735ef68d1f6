package bridge

// Name identifies a bridge command.
type Name string

const (
	WindowMinimize       Name = "window.minimize"
	WindowMaximizeToggle Name = "window.maximizeToggle"
	WindowClose          Name = "window.close"
	WindowIsMaximized    Name = "window.isMaximized"

	PlatformGet     Name = "platform.get"
	PlatformHomeDir Name = "platform.homeDir"

	ShellOpenExternal   Name = "shell.openExternal"
	DialogOpenDirectory Name = "dialog.openDirectory"

	NavigationWillNavigate Name = "navigation.willNavigate"
	NavigationWindowOpen   Name = "navigation.windowOpen"

	SkillsState      Name = "skills.state"
	SkillsRefresh    Name = "skills.refresh"
	SkillsAddPath    Name = "skills.addPath"
	SkillsRemovePath Name = "skills.removePath"
	SkillsAddURL     Name = "skills.addUrl"
	SkillsRemoveURL  Name = "skills.removeUrl"
)

// Category groups commands in the catalog listing.
type Category string

const (
	CategoryWindow     Category = "window"
	CategoryPlatform   Category = "platform"
	CategoryShell      Category = "shell"
	CategoryNavigation Category = "navigation"
	CategorySkills     Category = "skills"
)

// Parameter describes one field of a command's request payload.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Command describes one entry of the closed catalog.
type Command struct {
	Name        Name        `json:"name"`
	Category    Category    `json:"category"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

var urlParam = []Parameter{{Name: "url", Type: "string", Description: "Absolute URL", Required: true}}

var pathParam = []Parameter{{Name: "path", Type: "string", Description: "Local directory", Required: true}}

var catalog = []Command{
	{Name: WindowMinimize, Category: CategoryWindow, Description: "Minimize the window", Returns: "null"},
	{Name: WindowMaximizeToggle, Category: CategoryWindow, Description: "Maximize or restore the window", Returns: "null"},
	{Name: WindowClose, Category: CategoryWindow, Description: "Close the window", Returns: "null"},
	{Name: WindowIsMaximized, Category: CategoryWindow, Description: "Report whether the window is maximized", Returns: "boolean"},

	{Name: PlatformGet, Category: CategoryPlatform, Description: "Operating system identifier", Returns: "string"},
	{Name: PlatformHomeDir, Category: CategoryPlatform, Description: "Current user's home directory", Returns: "string"},

	{Name: ShellOpenExternal, Category: CategoryShell, Description: "Open an http(s) URL in the OS browser", Parameters: urlParam, Returns: "null"},
	{
		Name:        DialogOpenDirectory,
		Category:    CategoryShell,
		Description: "Pick a directory with the native dialog",
		Parameters:  []Parameter{{Name: "title", Type: "string", Description: "Dialog title", Required: false}},
		Returns:     "string|null",
	},

	{Name: NavigationWillNavigate, Category: CategoryNavigation, Description: "Decide an in-page navigation", Parameters: urlParam, Returns: "object"},
	{Name: NavigationWindowOpen, Category: CategoryNavigation, Description: "Decide a new-window request", Parameters: urlParam, Returns: "object"},

	{Name: SkillsState, Category: CategorySkills, Description: "Current skill configuration and sources", Returns: "object"},
	{Name: SkillsRefresh, Category: CategorySkills, Description: "Reload skills from the backend", Returns: "object"},
	{Name: SkillsAddPath, Category: CategorySkills, Description: "Add a local skill directory", Parameters: pathParam, Returns: "object"},
	{Name: SkillsRemovePath, Category: CategorySkills, Description: "Remove a local skill directory", Parameters: pathParam, Returns: "object"},
	{Name: SkillsAddURL, Category: CategorySkills, Description: "Add a remote skill URL", Parameters: urlParam, Returns: "object"},
	{Name: SkillsRemoveURL, Category: CategorySkills, Description: "Remove a remote skill URL", Parameters: urlParam, Returns: "object"},
}

// Catalog returns a copy of the command catalog.
func Catalog() []Command {
	out := make([]Command, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for name.
func Lookup(name Name) (Command, bool) {
	for _, cmd := range catalog {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return Command{}, false
}
