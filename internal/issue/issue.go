// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	StagingDirUnavailableId
	InvalidIndexId
	InstallFailedId
	RemovalFailedId
	WorldNotFoundId
	PermissionDeniedId
	WatchFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue page with the given glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

addonhelper reads an optional CUE file and validates it before doing anything else.

## Things you can try:
- Show where the configuration is looked up:
~~~
$ addonhelper config path
~~~

- Write a fresh default file and edit it:
~~~
$ addonhelper config init
~~~

- Check the CUE syntax. A minimal file looks like:
~~~cue
server_dir: "/srv/bedrock"
world_name: "Survival"
log_level:  "info"
~~~`,
	}

	stagingDirUnavailableIssue = &Issue{
		id: StagingDirUnavailableId,
		mdMsg: `
# The staging directory is not usable!

Archives are picked up from the staging directory, by default
` + "`plugins/addonshelper`" + ` below the server directory. It could not be created or read.

## Things you can try:
- Run addonhelper from the server directory, or pass it explicitly:
~~~
$ addonhelper --server-dir /srv/bedrock install
~~~

- Make sure the directory is writable by the user running addonhelper
- Point ` + "`staging_dir`" + ` at another location in your config file`,
	}

	invalidIndexIssue = &Issue{
		id: InvalidIndexId,
		mdMsg: `
# No entry with that number!

Removal commands take the number shown in the listings, starting at 1.

## Things you can try:
- List what is installed and pick the number from there:
~~~
$ addonhelper addon list
$ addonhelper pack list
~~~`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Some archives failed to install!

Failed archives are left in the staging directory so you can retry after fixing them.
Nothing was recorded for them.

## Common causes:
- The file is not a ZIP archive (renamed ` + "`.rar`" + ` or ` + "`.7z`" + ` files)
- The archive contains paths escaping its own folder
- The pack directories are not writable

## Things you can try:
- Re-run with ` + "`--verbose`" + ` to see the full reason for each archive
- Re-download the pack and drop it into the staging directory again`,
	}

	removalFailedIssue = &Issue{
		id: RemovalFailedId,
		mdMsg: `
# The pack could not be removed!

A pack folder could not be deleted, so the entry was kept in the ledger
and the world activation files were not touched.

## Things you can try:
- Stop the server, it may be holding files open (Windows)
- Check the permissions of ` + "`behavior_packs`" + ` and ` + "`resource_packs`",
	}

	worldNotFoundIssue = &Issue{
		id: WorldNotFoundId,
		mdMsg: `
# Could not determine the world!

The world is read from ` + "`level-name`" + ` in ` + "`server.properties`" + `.
When it is missing ` + "`Bedrock level`" + ` is used.

## Things you can try:
- Pass the world explicitly:
~~~
$ addonhelper --world "My World" install
~~~

- Set ` + "`world_name`" + ` in your config file`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- The server directory belongs to another user (for example a service account)
- The world folder is read-only while the server is running

## Things you can try:
- Run addonhelper as the user owning the server files
- Check file/directory permissions`,
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# Watching the staging directory failed!

The operating system refused to deliver file events.

## Things you can try:
- On Linux, raise the inotify limits:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
$ sudo sysctl fs.inotify.max_user_instances=512
~~~

- Run ` + "`addonhelper install`" + ` from a cron job or systemd timer instead`,
		extLinks: []HttpLink{"https://github.com/fsnotify/fsnotify#linux"},
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		stagingDirUnavailableIssue.Id(): stagingDirUnavailableIssue,
		invalidIndexIssue.Id():          invalidIndexIssue,
		installFailedIssue.Id():         installFailedIssue,
		removalFailedIssue.Id():         removalFailedIssue,
		worldNotFoundIssue.Id():         worldNotFoundIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
		watchFailedIssue.Id():           watchFailedIssue,
	}
)

// Values returns every catalogued issue in unspecified order.
func Values() []*Issue {
	return slices.Collect(maps.Values(issues))
}

func Get(id Id) *Issue {
	return issues[id]
}
