package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/folio-hub/folio/internal/config"
	"github.com/folio-hub/folio/internal/content"
	"github.com/folio-hub/folio/internal/logging"
	"github.com/folio-hub/folio/internal/repository"
	"github.com/folio-hub/folio/internal/server"
	"github.com/folio-hub/folio/internal/server/routes"
	"github.com/folio-hub/folio/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["content"] = cfg.Content.Describe()
		fields["auth_mode"] = cfg.Content.AuthMode()
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	app, err := buildApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化服务失败: %v\n", err)
		return 1
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["listen_port"] = cfg.Global.ListenPort
	fields["content"] = cfg.Content.Describe()
	fields["auth_mode"] = cfg.Content.AuthMode()
	fields["refresh_interval"] = cfg.Content.RefreshInterval.DurationValue().String()
	fields["reload_enabled"] = cfg.Content.ReloadEnabled()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(app, cfg.Global.ListenPort, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
// 两者都未提供时仅使用环境变量与 .env。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("folio", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（可被 FOLIO_CONFIG 提供）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("FOLIO_CONFIG")
	if configFlag != "" {
		path = configFlag
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

// buildApp 遵循“配置 → 内容仓库 → 加载器 → Fiber 路由”顺序组装服务，
// 所有请求共享同一个仓库与缓存实例。
func buildApp(cfg *config.Config, logger *logrus.Logger) (*fiber.App, error) {
	repo, err := repository.New(cfg.Content, repository.Options{
		Client: server.NewUpstreamClient(cfg),
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("构建内容仓库失败: %w", err)
	}

	library := content.NewLibrary(repo, content.Options{
		Renderer:      content.NewRenderer(content.DefaultRenderCacheSize),
		Logger:        logger,
		IncludeMedium: cfg.Content.IncludeMedium,
	})

	app, err := server.NewApp(server.AppOptions{
		Logger:      logger,
		CORSOrigins: cfg.Global.CORSOrigins,
	})
	if err != nil {
		return nil, err
	}

	routes.RegisterSystemRoutes(app, repo)
	routes.RegisterContentRoutes(app, library)
	routes.RegisterBlogRoutes(app, library)
	routes.RegisterReloadRoutes(app, repo, routes.ReloadOptions{
		Token:   cfg.Content.ReloadToken,
		Limiter: routes.DefaultReloadLimiter(),
		Logger:  logger,
	})
	return app, nil
}

func startHTTPServer(app *fiber.App, port int, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
