package bot

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// LoadModules walks the catalog in path order and registers every conforming
// module into reg. A module that fails to configure, set up or register is
// logged and skipped; the remaining modules still load.
// It returns the modules that were registered.
func LoadModules(catalog *Catalog, reg *Registry, deps ModuleDependencies) []Module {
	logger := deps.Logger
	deps.Registry = reg

	var loaded []Module
	for _, entry := range catalog.Entries() {
		if strings.Count(entry.Path, "/") > 1 || strings.HasPrefix(entry.Path, "/") ||
			strings.HasSuffix(entry.Path, "/") {
			logger.Warn("skipped module with unsupported path", "path", entry.Path)
			continue
		}

		mod, ok := entry.Module.(SetupModule)
		if !ok {
			logger.Debug("skipped module without setup", "path", entry.Path)
			continue
		}

		if err := loadModule(entry, mod, reg, deps); err != nil {
			logger.Error("failed to load module",
				"path", entry.Path,
				"module", mod.Name(),
				"error", err,
			)
			continue
		}

		logger.Info("loaded module", "path", entry.Path, "module", mod.Name())
		loaded = append(loaded, mod)
	}

	names := make([]string, len(loaded))
	for i, mod := range loaded {
		names[i] = mod.Name()
	}
	logger.Info("initialized modules", "modules", names)

	return loaded
}

func loadModule(entry CatalogEntry, mod SetupModule, reg *Registry, deps ModuleDependencies) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	if cm, ok := mod.(ConfigurableModule); ok {
		if err := cm.LoadConfig(); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	b := NewBuilder(mod.Name(), entry.Category(), deps)
	if err := mod.Setup(b); err != nil {
		return fmt.Errorf("failed to set up module: %w", err)
	}

	if err := reg.Register(b.Cog()); err != nil {
		return err
	}

	return nil
}
