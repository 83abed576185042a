package testutil

import "github.com/kmatyas/twopane/internal/shell"

// DeveloperMenu returns the verb set a machine with git and an editor
// typically registers against the universal scope.
func DeveloperMenu() []shell.ExtensionEntry {
	return []shell.ExtensionEntry{
		Entry("Open Git Bash here", `"C:\Git\git-bash.exe" "--cd=%1"`,
			WithAction("git_bash"), WithCategory(shell.CategoryVersionControl)),
		Entry("Open with Code", `"C:\VSCode\Code.exe" "%1"`,
			WithAction("vscode"), WithCategory(shell.CategoryEditor)),
	}
}

// FileOpsMenu returns the built-in clipboard and file-management verbs.
func FileOpsMenu() []shell.ExtensionEntry {
	return []shell.ExtensionEntry{
		Entry("Cut", "cut", WithAction("cut"), WithSystem()),
		Entry("Copy", "copy", WithAction("copy"), WithSystem()),
		Entry("Delete", "delete", WithAction("delete"), WithSystem()),
		Entry("Rename", "rename", WithAction("rename"), WithSystem()),
	}
}

// MediaMenu returns third-party media-player verbs bound to video types.
func MediaMenu() []shell.ExtensionEntry {
	return []shell.ExtensionEntry{
		Entry("Add to VLC media player's Playlist", `"C:\VLC\vlc.exe" --playlist-enqueue "%1"`,
			WithAction("vlc_enqueue"), WithCategory(shell.CategoryMedia)),
	}
}

// SampleApplications returns a small discovered-application index.
func SampleApplications() map[string]shell.ApplicationInfo {
	return Apps(
		App("VLC media player",
			WithAppExecutable(`C:\VLC\vlc.exe`),
			WithInstallPath(`C:\VLC`),
			WithVersion("3.0.21"),
			WithDiscoveryMethod("registry_uninstall")),
		App("Git",
			WithAppExecutable(`C:\Git\git.exe`),
			WithInstallPath(`C:\Git`),
			WithDiscoveryMethod("registry_uninstall")),
		App("Visual Studio Code",
			WithAppExecutable(`C:\VSCode\Code.exe`),
			WithDiscoveryMethod("app_paths")),
	)
}
