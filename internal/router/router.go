package router

import (
	"time"

	"panifpro/internal/config"
	"panifpro/internal/handler"
	"panifpro/internal/infra"
	"panifpro/internal/middleware"
	"panifpro/internal/repository"
	"panifpro/internal/service"
	"panifpro/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	receitaRepo := repository.NewReceitaRepository(db)
	tipoProdutoRepo := repository.NewTipoProdutoRepository(db)
	grupoRepo := repository.NewGrupoRepository(db)
	ordemRepo := repository.NewOrdemRepository(db)
	movimentoRepo := repository.NewMovimentoEstoqueRepository(db)
	historicoRepo := repository.NewHistoricoCustoRepository(db)
	relatorioRepo := repository.NewRelatorioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	custoSvc := service.NewCustoService(receitaRepo, produtoRepo, historicoRepo, rdb)
	receitaSvc := service.NewReceitaService(receitaRepo, produtoRepo, tipoProdutoRepo, custoSvc)
	produtoSvc := service.NewProdutoService(produtoRepo, receitaRepo, historicoRepo, rdb)
	estoqueSvc := service.NewEstoqueService(produtoRepo, movimentoRepo)
	ordemSvc := service.NewOrdemService(ordemRepo, receitaRepo, produtoRepo, movimentoRepo)
	relatorioSvc := service.NewRelatorioService(relatorioRepo, ordemRepo, dispatcher)
	grupoSvc := service.NewGrupoService(grupoRepo)
	tipoProdutoSvc := service.NewTipoProdutoService(tipoProdutoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc, estoqueSvc)
	receitasH := handler.NewReceitasHandler(receitaSvc, custoSvc)
	ordensH := handler.NewOrdensHandler(ordemSvc, relatorioSvc, cfg.ReportStoragePath)
	estoqueH := handler.NewEstoqueHandler(estoqueSvc)
	tiposH := handler.NewTiposProdutoHandler(tipoProdutoSvc)
	gruposH := handler.NewGruposHandler(grupoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Papéis: admin, producao, consulta — declared per-endpoint.
		// consulta is read-only; producao also operates orders and stock.
		leitura := middleware.RequirePapel("admin", "producao", "consulta")
		operacao := middleware.RequirePapel("admin", "producao")
		adminOnly := middleware.RequirePapel("admin")

		// Produtos
		v1.GET("/produtos", leitura, produtosH.Listar)
		v1.GET("/produtos/:id", leitura, produtosH.Obter)
		v1.GET("/produtos/:id/custo", leitura, produtosH.ConsultaCusto)
		v1.GET("/produtos/:id/historico-custos", leitura, produtosH.HistoricoCustos)
		v1.PATCH("/produtos/:id/estoque", operacao, produtosH.AjustarEstoque)
		prods := v1.Group("/produtos", adminOnly)
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
			prods.PATCH("/:id/reativar", produtosH.Reativar)
		}

		// Receitas
		v1.GET("/receitas", leitura, receitasH.Listar)
		v1.GET("/receitas/:id", leitura, receitasH.Obter)
		recs := v1.Group("/receitas", adminOnly)
		{
			recs.POST("", receitasH.Criar)
			recs.PUT("/:id", receitasH.Atualizar)
			recs.DELETE("/:id", receitasH.Excluir)
			recs.POST("/:id/recalcular-custo", receitasH.RecalcularCusto)
			recs.POST("/recalcular-custos", receitasH.RecalcularTodos)
		}

		// Ordens de produção
		v1.GET("/ordens", leitura, ordensH.Listar)
		v1.GET("/ordens/:id", leitura, ordensH.Obter)
		v1.GET("/ordens/:id/materiais", leitura, ordensH.Materiais)
		v1.GET("/ordens/:id/pre-pesagem", leitura, ordensH.PrePesagem)
		v1.GET("/ordens/:id/relatorios", leitura, ordensH.ListarRelatorios)
		ords := v1.Group("/ordens", operacao)
		{
			ords.POST("", ordensH.Criar)
			ords.PUT("/:id", ordensH.Atualizar)
			ords.PATCH("/:id/status", ordensH.AtualizarStatus)
			ords.POST("/:id/confirmar", ordensH.Confirmar)
			ords.POST("/:id/relatorios", ordensH.GerarRelatorio)
		}
		v1.GET("/relatorios/:relatorioId", leitura, ordensH.ObterRelatorio)
		v1.GET("/relatorios/:relatorioId/download", leitura, ordensH.BaixarRelatorio)

		// Estoque
		v1.GET("/estoque/movimentos", leitura, estoqueH.ListarMovimentos)
		v1.GET("/estoque/alertas", leitura, estoqueH.Alertas)

		// Cadastros auxiliares
		v1.GET("/tipos-produto", leitura, tiposH.Listar)
		v1.POST("/tipos-produto", adminOnly, tiposH.Criar)

		v1.GET("/grupos", leitura, gruposH.Listar)
		grps := v1.Group("/grupos", adminOnly)
		{
			grps.POST("", gruposH.Criar)
			grps.PUT("/:id", gruposH.Atualizar)
			grps.DELETE("/:id", gruposH.Desativar)
			grps.POST("/:id/subgrupos", gruposH.CriarSubgrupo)
			grps.DELETE("/:id/subgrupos/:subId", gruposH.DesativarSubgrupo)
		}

		// Usuários
		usuarios := v1.Group("/usuarios", adminOnly)
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
			usuarios.PATCH("/:id/reativar", usuariosH.Reativar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
