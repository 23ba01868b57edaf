package doctor

// groupDefinitions defines the check groups with their metadata.
var groupDefinitions = map[string]struct {
	Name        string
	Description string
	CheckIDs    []string
}{
	GroupSystem: {
		Name:        "System packages",
		Description: "OS package manager used for shared libraries and compilers",
		CheckIDs:    []string{IDAptGet},
	},
	GroupPython: {
		Name:        "Python toolchain",
		Description: "Interpreter and installer for the backend's dependencies",
		CheckIDs:    []string{IDPython, IDPip},
	},
	GroupProject: {
		Name:        "Project files",
		Description: "Files and directories the provisioning run reads or creates",
		CheckIDs:    []string{IDManifest, IDUploads},
	},
}

// GetGroups returns all check groups.
func GetGroups() []CheckGroup {
	var groups []CheckGroup
	for _, groupID := range GetAllGroupIDs() {
		def := groupDefinitions[groupID]
		groups = append(groups, CheckGroup{
			ID:          groupID,
			Name:        def.Name,
			Description: def.Description,
		})
	}
	return groups
}

// GetGroupDefinition returns the definition for a specific group.
func GetGroupDefinition(groupID string) (struct {
	Name        string
	Description string
	CheckIDs    []string
}, bool) {
	def, ok := groupDefinitions[groupID]
	return def, ok
}

// GetAllGroupIDs returns all group IDs in display order.
func GetAllGroupIDs() []string {
	return []string{GroupSystem, GroupPython, GroupProject}
}
