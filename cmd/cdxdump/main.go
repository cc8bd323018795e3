package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/cdx"
	"www.velocidex.com/golang/vfilter"
)

var (
	app = kingpin.New("cdxdump", "Inspect binary CDX documents.")

	rigid_flag     = app.Flag("rigid", "Fail on the first recoverable fault.").Bool()
	max_depth_flag = app.Flag("max_depth", "Maximum object nesting.").Int()
	max_nodes_flag = app.Flag("max_nodes", "Maximum number of objects.").Int()
	config_flag    = app.Flag("config", "TOML configuration file.").String()
	catalog_flag   = app.Flag("catalog", "Extra catalog definitions (YAML or JSON).").Strings()
	verbose_flag   = app.Flag("verbose", "Log decoding progress.").Short('v').Bool()
	spew_flag      = app.Flag("spew", "Dump Go structures instead of JSON.").Bool()

	dump_command = app.Command("dump", "Print the decoded document.")
	dump_file    = dump_command.Arg("file", "The CDX file.").Required().String()

	tree_command = app.Command("tree", "Print the raw object tree.")
	tree_file    = tree_command.Arg("file", "The CDX file.").Required().String()

	get_command = app.Command("get", "Print a value by dotted path, e.g. Children.0.Kind")
	get_file    = get_command.Arg("file", "The CDX file.").Required().String()
	get_path    = get_command.Arg("path", "Dotted path from the root object.").Required().String()

	objects_command = app.Command("objects", "Print one JSON row per object.")
	objects_file    = objects_command.Arg("file", "The CDX file.").Required().String()

	catalog_command = app.Command("catalog", "List the catalog.")
)

type session struct {
	config  dumpConfig
	logger  *zap.Logger
	scope   vfilter.Scope
	catalog *cdx.Catalog
}

func newSession() (*session, error) {
	flags := dumpConfig{
		Rigid:    *rigid_flag,
		MaxDepth: *max_depth_flag,
		MaxNodes: *max_nodes_flag,
		Catalogs: *catalog_flag,
		Verbose:  *verbose_flag,
	}

	config := dumpConfig{}
	if *config_flag != "" {
		var err error
		config, err = loadConfig(*config_flag)
		if err != nil {
			return nil, err
		}
	}
	config = config.merge(flags)

	logger, err := newLogger(config.Verbose)
	if err != nil {
		return nil, err
	}

	scope := cdx.MakeScope()
	scope.SetLogger(zap.NewStdLog(logger))
	if config.Verbose {
		scope.AppendVars(ordereddict.NewDict().Set("DEBUG_CDX", true))
	}

	catalog, err := loadCatalog(config.Catalogs)
	if err != nil {
		return nil, err
	}

	return &session{
		config:  config,
		logger:  logger,
		scope:   scope,
		catalog: catalog,
	}, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	if !verbose {
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return config.Build()
}

func loadCatalog(paths []string) (*cdx.Catalog, error) {
	if len(paths) == 0 {
		return cdx.DefaultCatalog()
	}

	catalog, err := cdx.NewDefaultCatalog()
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "catalog")
		}

		if strings.EqualFold(filepath.Ext(path), ".json") {
			err = catalog.ParseJSONDefinitions(data)
		} else {
			err = catalog.ParseDefinitions(string(data))
		}
		if err != nil {
			return nil, errors.Wrapf(err, "catalog %v", path)
		}
	}
	return catalog, nil
}

func (self *session) options() cdx.Options {
	return cdx.Options{
		Rigid:    self.config.Rigid,
		MaxDepth: self.config.MaxDepth,
		MaxNodes: self.config.MaxNodes,
		Catalog:  self.catalog,
		Scope:    self.scope,
	}
}

func (self *session) Close() {
	self.scope.Close()
	_ = self.logger.Sync()
}

func (self *session) parse(ctx context.Context, filename string) (*cdx.Document, error) {
	doc, err := cdx.ParseFile(ctx, filename, self.options())
	if err != nil {
		return nil, err
	}

	for _, diagnostic := range doc.Diagnostics {
		self.logger.Debug("recovered",
			zap.String("kind", string(diagnostic.Kind)),
			zap.Int64("offset", diagnostic.Offset),
			zap.String("tag", self.catalog.TagName(diagnostic.Tag)),
			zap.String("message", diagnostic.Message))
	}
	if len(doc.Diagnostics) > 0 {
		self.logger.Warn("document has recoverable faults",
			zap.String("file", filename),
			zap.Int("count", len(doc.Diagnostics)))
	}
	return doc, nil
}

func (self *session) print(v interface{}) {
	if *spew_flag {
		fmt.Print(cdx.DebugString(v))
		return
	}
	cdx.JsonDump(v)
}

func doDump(ctx context.Context, self *session) error {
	doc, err := self.parse(ctx, *dump_file)
	if err != nil {
		return err
	}
	self.print(doc)
	return nil
}

func doTree(ctx context.Context, self *session) error {
	buf, err := os.ReadFile(*tree_file)
	if err != nil {
		return errors.Wrap(err, "tree")
	}

	tree, err := cdx.ParseTree(ctx, buf, cdx.Limits{
		MaxDepth: self.config.MaxDepth,
		MaxNodes: self.config.MaxNodes,
	})
	if err != nil {
		return err
	}

	return tree.Walk(func(idx int, node *cdx.Node) error {
		indent := strings.Repeat("  ", node.Depth)
		fmt.Printf("%s%s id=%d offset=%d\n", indent,
			self.catalog.TagName(node.Tag), node.ID, node.Offset)
		for _, prop := range node.Properties {
			fmt.Printf("%s  .%s (%d bytes)\n", indent,
				self.catalog.TagName(prop.Tag), len(prop.Data))
		}
		return nil
	})
}

func doGet(ctx context.Context, self *session) error {
	doc, err := self.parse(ctx, *get_file)
	if err != nil {
		return err
	}

	value := cdx.Associative(self.scope, doc, *get_path)
	if cdx.IsNil(value) {
		return fmt.Errorf("%v: no such path", *get_path)
	}
	self.print(value)
	return nil
}

func doObjects(ctx context.Context, self *session) error {
	doc, err := self.parse(ctx, *objects_file)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	stack := []*cdx.Object{doc.Object}
	for len(stack) > 0 {
		obj := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		err := encoder.Encode(cdx.ObjectRow(obj))
		if err != nil {
			return err
		}
		for i := len(obj.Children) - 1; i >= 0; i-- {
			stack = append(stack, obj.Children[i])
		}
	}
	return nil
}

func doCatalog(ctx context.Context, self *session) error {
	for _, def := range self.catalog.Objects() {
		fmt.Printf("%#04x object   %s\n", def.Tag, def.Name)
	}
	for _, def := range self.catalog.Properties() {
		fmt.Printf("%#04x property %s (%s)\n", def.Tag, def.Name, def.Type)
	}
	return nil
}

func runCommand(ctx context.Context, self *session, command string) error {
	switch command {
	case dump_command.FullCommand():
		return doDump(ctx, self)
	case tree_command.FullCommand():
		return doTree(ctx, self)
	case get_command.FullCommand():
		return doGet(ctx, self)
	case objects_command.FullCommand():
		return doObjects(ctx, self)
	case catalog_command.FullCommand():
		return doCatalog(ctx, self)
	}
	return fmt.Errorf("unknown command %v", command)
}

func main() {
	app.HelpFlag.Short('h')
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	self, err := newSession()
	kingpin.FatalIfError(err, "cdxdump")

	err = runCommand(ctx, self, command)

	// FatalIfError exits without running deferred calls.
	self.Close()
	cancel()
	kingpin.FatalIfError(err, "%s", command)
}
