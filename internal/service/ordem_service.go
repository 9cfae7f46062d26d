package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"panifpro/internal/bom"
	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrdemService manages production orders and the two shop-floor
// calculators derived from them: the aggregated raw-material list and
// the per-recipe pre-weighing sheet.
type OrdemService interface {
	Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarOrdemRequest) (*dto.OrdemResponse, error)
	Obter(ctx context.Context, empresaID, id uuid.UUID) (*dto.OrdemResponse, error)
	Listar(ctx context.Context, empresaID uuid.UUID, filter dto.OrdemFilter) (*dto.OrdemListResponse, error)
	Atualizar(ctx context.Context, empresaID, id uuid.UUID, req dto.AtualizarOrdemRequest) (*dto.OrdemResponse, error)
	AtualizarStatus(ctx context.Context, empresaID, id uuid.UUID, status string) (*dto.OrdemResponse, error)
	CalcularMateriais(ctx context.Context, empresaID, id uuid.UUID) (*dto.MateriaisResponse, error)
	CalcularPrePesagem(ctx context.Context, empresaID, id uuid.UUID) (*dto.PrePesagemResponse, error)
	// Confirmar completes the order, deducting raw materials from stock
	// and recording one movement per material.
	Confirmar(ctx context.Context, empresaID, id uuid.UUID) (*dto.ConfirmarOrdemResponse, error)
}

type ordemService struct {
	repo       repository.OrdemRepository
	receitas   repository.ReceitaRepository
	produtos   repository.ProdutoRepository
	movimentos repository.MovimentoEstoqueRepository
}

func NewOrdemService(
	repo repository.OrdemRepository,
	receitas repository.ReceitaRepository,
	produtos repository.ProdutoRepository,
	movimentos repository.MovimentoEstoqueRepository,
) OrdemService {
	return &ordemService{repo: repo, receitas: receitas, produtos: produtos, movimentos: movimentos}
}

// ── CRUD ─────────────────────────────────────────────────────────────────────

func (s *ordemService) Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarOrdemRequest) (*dto.OrdemResponse, error) {
	itens, err := s.montarItens(ctx, empresaID, req.Itens)
	if err != nil {
		return nil, err
	}

	numero, err := s.repo.NextNumero(ctx, empresaID)
	if err != nil {
		return nil, err
	}

	ordem := &model.OrdemProducao{
		EmpresaID:      empresaID,
		Numero:         numero,
		DataProgramada: req.DataProgramada,
		Status:         "pendente",
		Observacoes:    req.Observacoes,
		Itens:          itens,
	}
	if err := s.repo.Create(ctx, ordem); err != nil {
		return nil, err
	}
	return ordemParaResponse(ordem), nil
}

func (s *ordemService) Obter(ctx context.Context, empresaID, id uuid.UUID) (*dto.OrdemResponse, error) {
	ordem, err := s.repo.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("ordem de produção não encontrada")
	}
	return ordemParaResponse(ordem), nil
}

func (s *ordemService) Listar(ctx context.Context, empresaID uuid.UUID, filter dto.OrdemFilter) (*dto.OrdemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	ordens, total, err := s.repo.List(ctx, empresaID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrdemResponse, 0, len(ordens))
	for i := range ordens {
		data = append(data, *ordemParaResponse(&ordens[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.OrdemListResponse{
		Data: data, Total: total, Page: filter.Page, Limit: filter.Limit, TotalPages: totalPages,
	}, nil
}

func (s *ordemService) Atualizar(ctx context.Context, empresaID, id uuid.UUID, req dto.AtualizarOrdemRequest) (*dto.OrdemResponse, error) {
	ordem, err := s.repo.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("ordem de produção não encontrada")
	}
	if req.Itens != nil && ordem.Status != "pendente" {
		return nil, errors.New("itens só podem ser alterados enquanto a ordem está pendente")
	}

	if req.DataProgramada != nil {
		ordem.DataProgramada = *req.DataProgramada
	}
	if req.Observacoes != nil {
		ordem.Observacoes = req.Observacoes
	}

	var novos []model.ItemOrdemProducao
	if req.Itens != nil {
		if novos, err = s.montarItens(ctx, empresaID, req.Itens); err != nil {
			return nil, err
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx != nil {
			if err := tx.Omit("Itens").Save(ordem).Error; err != nil {
				return err
			}
		}
		if req.Itens == nil || tx == nil {
			return nil
		}
		return s.repo.ReplaceItensTx(tx, id, novos)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Obter(ctx, empresaID, id)
}

// statusTransicoes lists the allowed forward moves. "concluida" is
// reachable only through Confirmar, which also applies stock deductions.
var statusTransicoes = map[string][]string{
	"pendente":     {"em_andamento", "cancelada"},
	"em_andamento": {"cancelada"},
}

func (s *ordemService) AtualizarStatus(ctx context.Context, empresaID, id uuid.UUID, status string) (*dto.OrdemResponse, error) {
	if status == "concluida" {
		return nil, errors.New("use a confirmação da ordem para concluí-la")
	}
	ordem, err := s.repo.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("ordem de produção não encontrada")
	}
	permitidos := statusTransicoes[ordem.Status]
	valido := false
	for _, p := range permitidos {
		if p == status {
			valido = true
			break
		}
	}
	if !valido {
		return nil, fmt.Errorf("transição de status inválida: %s -> %s", ordem.Status, status)
	}

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateStatusTx(tx, id, status)
	}); err != nil {
		return nil, err
	}
	return s.Obter(ctx, empresaID, id)
}

// ── Materiais ────────────────────────────────────────────────────────────────

func (s *ordemService) CalcularMateriais(ctx context.Context, empresaID, id uuid.UUID) (*dto.MateriaisResponse, error) {
	ordem, err := s.repo.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("ordem de produção não encontrada")
	}

	necessidades, _, avisos, err := s.expandirOrdem(ctx, empresaID, ordem)
	if err != nil {
		return nil, err
	}

	totais, conflitos := bom.AgregarNecessidades(necessidades)
	for _, c := range conflitos {
		avisos = append(avisos, fmt.Sprintf("unidades conflitantes para %q: %v", c.Nome, c.Unidades))
	}

	resp := &dto.MateriaisResponse{
		OrdemID: ordem.ID.String(),
		Numero:  ordem.Numero,
		Avisos:  avisos,
	}
	for _, t := range totais {
		resp.Materiais = append(resp.Materiais, dto.MaterialItem{
			ProdutoID:  t.ProdutoID.String(),
			Nome:       t.Nome,
			Quantidade: t.Quantidade,
			Unidade:    t.Unidade,
		})
	}
	return resp, nil
}

// ── Pré-pesagem ──────────────────────────────────────────────────────────────
// One weighing block per intermediate batch, dependency-ordered so every
// batch is weighed before anything that consumes it, followed by one
// block per order item.

func (s *ordemService) CalcularPrePesagem(ctx context.Context, empresaID, id uuid.UUID) (*dto.PrePesagemResponse, error) {
	ordem, err := s.repo.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("ordem de produção não encontrada")
	}

	fonte := novaFonteCatalogo(s.receitas, empresaID)
	expansor := bom.NewExpansor(fonte)

	type alvoItem struct {
		receita *bom.Receita
		alvoKg  decimal.Decimal
	}
	var finais []alvoItem
	lotes := make(map[uuid.UUID]*bom.LoteSubReceita)
	var ordemLotes []uuid.UUID
	var avisos []string

	for _, item := range ordem.Itens {
		rec, err := fonte.Receita(ctx, item.ReceitaID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			avisos = append(avisos, fmt.Sprintf("receita %s não encontrada; item ignorado", item.ReceitaID))
			continue
		}
		alvo, err := alvoKgDoItem(&item, rec)
		if err != nil {
			return nil, err
		}
		_, itemLotes, err := expansor.ExpandirComLotes(ctx, item.ReceitaID, alvo)
		if err != nil {
			return nil, err
		}
		for _, lote := range itemLotes {
			agg, ok := lotes[lote.ReceitaID]
			if !ok {
				cp := lote
				lotes[lote.ReceitaID] = &cp
				ordemLotes = append(ordemLotes, lote.ReceitaID)
				continue
			}
			agg.Ocorrencias += lote.Ocorrencias
			agg.QuantidadeKg = agg.QuantidadeKg.Add(lote.QuantidadeKg)
		}
		finais = append(finais, alvoItem{receita: rec, alvoKg: alvo})
	}

	// Batches must come out deepest-dependency first.
	arestas := make(map[uuid.UUID][]uuid.UUID, len(ordemLotes))
	for _, loteID := range ordemLotes {
		ings, err := fonte.Ingredientes(ctx, loteID)
		if err != nil {
			return nil, err
		}
		for _, ing := range ings {
			if ing.EhSubReceita && ing.SubReceitaID != nil {
				if _, ok := lotes[*ing.SubReceitaID]; ok {
					arestas[loteID] = append(arestas[loteID], *ing.SubReceitaID)
				}
			}
		}
	}
	ordenados, err := bom.OrdenarPorDependencia(ordemLotes, arestas)
	if err != nil {
		return nil, err
	}

	resp := &dto.PrePesagemResponse{OrdemID: ordem.ID.String(), Numero: ordem.Numero, Avisos: avisos}
	for _, loteID := range ordenados {
		lote := lotes[loteID]
		rec, err := fonte.Receita(ctx, loteID)
		if err != nil || rec == nil {
			continue
		}
		bloco, err := s.montarBlocoPesagem(ctx, fonte, rec, lote.QuantidadeKg, true)
		if err != nil {
			return nil, err
		}
		resp.Lotes = append(resp.Lotes, *bloco)
	}
	for _, fin := range finais {
		bloco, err := s.montarBlocoPesagem(ctx, fonte, fin.receita, fin.alvoKg, false)
		if err != nil {
			return nil, err
		}
		resp.Lotes = append(resp.Lotes, *bloco)
	}
	return resp, nil
}

func (s *ordemService) montarBlocoPesagem(ctx context.Context, fonte bom.Fonte, rec *bom.Receita, alvoKg decimal.Decimal, subReceita bool) (*dto.PesagemReceita, error) {
	if rec.RendimentoKg.LessThanOrEqual(decimal.Zero) {
		return nil, &bom.RendimentoInvalidoError{ReceitaID: rec.ID, Nome: rec.Nome}
	}
	ings, err := fonte.Ingredientes(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	fator := alvoKg.Div(rec.RendimentoKg)

	bloco := &dto.PesagemReceita{
		ReceitaID:  rec.ID.String(),
		Nome:       rec.Nome,
		Codigo:     rec.Codigo,
		AlvoKg:     alvoKg,
		SubReceita: subReceita,
	}
	for _, ing := range ings {
		if ing.NaoResolvido {
			continue
		}
		bloco.Linhas = append(bloco.Linhas, dto.PesagemLinha{
			Etapa:      ing.Etapa,
			Nome:       ing.Nome,
			Quantidade: ing.Quantidade.Mul(fator),
			Unidade:    ing.Unidade,
			SubReceita: ing.EhSubReceita,
		})
	}
	// Sub-receitas aparecem antes das matérias-primas dentro da etapa.
	sort.SliceStable(bloco.Linhas, func(i, j int) bool {
		li, lj := bloco.Linhas[i], bloco.Linhas[j]
		if li.Etapa != lj.Etapa {
			return li.Etapa < lj.Etapa
		}
		if li.SubReceita != lj.SubReceita {
			return li.SubReceita
		}
		return li.Nome < lj.Nome
	})
	return bloco, nil
}

// ── Confirmar ────────────────────────────────────────────────────────────────

func (s *ordemService) Confirmar(ctx context.Context, empresaID, id uuid.UUID) (*dto.ConfirmarOrdemResponse, error) {
	ordem, err := s.repo.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("ordem de produção não encontrada")
	}
	if ordem.Status != "pendente" && ordem.Status != "em_andamento" {
		return nil, fmt.Errorf("ordem %s não pode ser confirmada no status %q", ordem.Numero, ordem.Status)
	}

	necessidades, _, _, err := s.expandirOrdem(ctx, empresaID, ordem)
	if err != nil {
		return nil, err
	}
	totais, _ := bom.AgregarNecessidades(necessidades)

	resp := &dto.ConfirmarOrdemResponse{
		OrdemID: ordem.ID.String(),
		Numero:  ordem.Numero,
		Status:  "concluida",
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, t := range totais {
			p, err := s.produtos.FindByID(ctx, empresaID, t.ProdutoID)
			if err != nil {
				return fmt.Errorf("produto %s não encontrado ao baixar estoque", t.Nome)
			}
			anterior := p.EstoqueAtual
			novo := anterior.Sub(t.Quantidade)

			if err := s.produtos.AjustarEstoqueTx(tx, t.ProdutoID, t.Quantidade.Neg()); err != nil {
				return err
			}
			ordemRef := ordem.ID
			mov := &model.MovimentoEstoque{
				EmpresaID:       empresaID,
				ProdutoID:       t.ProdutoID,
				Tipo:            "producao",
				Quantidade:      t.Quantidade.Neg(),
				EstoqueAnterior: anterior,
				EstoqueNovo:     novo,
				Motivo:          fmt.Sprintf("Ordem de produção %s", ordem.Numero),
				ReferenciaID:    &ordemRef,
			}
			if err := s.movimentos.CreateTx(tx, mov); err != nil {
				return err
			}

			item := dto.MaterialItem{
				ProdutoID:  t.ProdutoID.String(),
				Nome:       t.Nome,
				Quantidade: t.Quantidade,
				Unidade:    t.Unidade,
			}
			resp.Baixas = append(resp.Baixas, item)
			if novo.IsNegative() {
				resp.Insuficientes = append(resp.Insuficientes, item)
			}
		}
		return s.repo.UpdateStatusTx(tx, id, "concluida")
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *ordemService) montarItens(ctx context.Context, empresaID uuid.UUID, reqs []dto.ItemOrdemRequest) ([]model.ItemOrdemProducao, error) {
	itens := make([]model.ItemOrdemProducao, 0, len(reqs))
	for i, item := range reqs {
		if item.Quantidade.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("item %d: quantidade deve ser maior que zero", i+1)
		}
		recID, err := uuid.Parse(item.ReceitaID)
		if err != nil {
			return nil, fmt.Errorf("item %d: receita_id inválido", i+1)
		}
		rec, err := s.receitas.FindByID(ctx, empresaID, recID)
		if err != nil {
			return nil, fmt.Errorf("item %d: receita não encontrada", i+1)
		}
		if item.Unidade == "UN" && (rec.RendimentoUnidades == nil || *rec.RendimentoUnidades <= 0) {
			return nil, fmt.Errorf("item %d: receita %q não declara rendimento em unidades", i+1, rec.Nome)
		}
		itens = append(itens, model.ItemOrdemProducao{
			ReceitaID:  recID,
			Quantidade: item.Quantidade,
			Unidade:    item.Unidade,
		})
	}
	return itens, nil
}

// expandirOrdem flattens every order item into raw-material needs,
// converting UN-planned items to kg through the recipe yield first.
func (s *ordemService) expandirOrdem(ctx context.Context, empresaID uuid.UUID, ordem *model.OrdemProducao) ([]bom.Necessidade, []bom.LoteSubReceita, []string, error) {
	fonte := novaFonteCatalogo(s.receitas, empresaID)
	expansor := bom.NewExpansor(fonte)

	var necessidades []bom.Necessidade
	var lotes []bom.LoteSubReceita
	var avisos []string

	for _, item := range ordem.Itens {
		rec, err := fonte.Receita(ctx, item.ReceitaID)
		if err != nil {
			return nil, nil, nil, err
		}
		if rec == nil {
			avisos = append(avisos, fmt.Sprintf("receita %s não encontrada; item ignorado", item.ReceitaID))
			continue
		}
		alvo, err := alvoKgDoItem(&item, rec)
		if err != nil {
			return nil, nil, nil, err
		}
		itemNec, itemLotes, err := expansor.ExpandirComLotes(ctx, item.ReceitaID, alvo)
		if err != nil {
			return nil, nil, nil, err
		}
		necessidades = append(necessidades, itemNec...)
		lotes = append(lotes, itemLotes...)
	}
	return necessidades, lotes, avisos, nil
}

// alvoKgDoItem converts a planned quantity to target kilograms. Items
// planned in discrete units use the recipe's per-unit weight
// (rendimento_kg / rendimento_unidades).
func alvoKgDoItem(item *model.ItemOrdemProducao, rec *bom.Receita) (decimal.Decimal, error) {
	if item.Unidade != "UN" {
		return item.Quantidade, nil
	}
	if rec.RendimentoUnidades <= 0 {
		return decimal.Zero, fmt.Errorf("receita %q não declara rendimento em unidades", rec.Nome)
	}
	pesoUnidade := rec.RendimentoKg.Div(decimal.NewFromInt(int64(rec.RendimentoUnidades)))
	return item.Quantidade.Mul(pesoUnidade), nil
}

func ordemParaResponse(o *model.OrdemProducao) *dto.OrdemResponse {
	resp := &dto.OrdemResponse{
		ID:             o.ID.String(),
		Numero:         o.Numero,
		DataProgramada: o.DataProgramada.Format("2006-01-02"),
		Status:         o.Status,
		Observacoes:    o.Observacoes,
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range o.Itens {
		nome := ""
		if item.Receita != nil {
			nome = item.Receita.Nome
		}
		resp.Itens = append(resp.Itens, dto.ItemOrdemResponse{
			ID:          item.ID.String(),
			ReceitaID:   item.ReceitaID.String(),
			ReceitaNome: nome,
			Quantidade:  item.Quantidade,
			Unidade:     item.Unidade,
		})
	}
	return resp
}
