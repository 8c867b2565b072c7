package service

import (
	"context"
	"errors"
	"time"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/infra"
	"github.com/dmbruno/Ananda/internal/model"
	"github.com/dmbruno/Ananda/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaService struct {
	cajas      repository.CajaRepository
	usuarios   repository.UsuarioRepository
	pdfStorage string
}

func NewCajaService(cajas repository.CajaRepository, usuarios repository.UsuarioRepository, pdfStorage string) *CajaService {
	return &CajaService{cajas: cajas, usuarios: usuarios, pdfStorage: pdfStorage}
}

// cargarUsuario resolves the acting operator for the response projection.
// The state change already committed, so a failed lookup only leaves the
// association empty.
func (s *CajaService) cargarUsuario(ctx context.Context, id uuid.UUID) *model.Usuario {
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	return u
}

// Actual returns the open session with its sales, or estado "cerrada" with
// a nil caja when nothing is open.
func (s *CajaService) Actual(ctx context.Context) (*dto.CajaActualResponse, error) {
	caja, err := s.cajas.FindAbierta(ctx)
	if err != nil {
		if isNotFound(err) {
			return &dto.CajaActualResponse{Caja: nil, Estado: model.CajaCerrada}, nil
		}
		return nil, err
	}
	resp := ToCajaResponse(caja, true)
	return &dto.CajaActualResponse{Caja: &resp, Estado: caja.Estado}, nil
}

// Abrir opens a new session. The pre-check gives a clean error message;
// the partial unique index on estado='abierta' closes the race between
// concurrent openers.
func (s *CajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	if _, err := s.cajas.FindAbierta(ctx); err == nil {
		return nil, ErrCajaYaAbierta
	} else if !isNotFound(err) {
		return nil, err
	}

	caja := &model.Caja{
		FechaApertura:     time.Now(),
		MontoInicial:      req.MontoInicial,
		UsuarioAperturaID: usuarioID,
		Estado:            model.CajaAbierta,
		NotasApertura:     req.Notas,
	}
	if err := s.cajas.Create(ctx, caja); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCajaYaAbierta
		}
		return nil, err
	}

	caja.UsuarioApertura = s.cargarUsuario(ctx, usuarioID)
	resp := ToCajaResponse(caja, false)
	return &resp, nil
}

// Cerrar closes the open session. monto_sistema = monto_inicial +
// Σ(ventas.total); diferencia = monto_declarado − monto_sistema when a
// count was declared, zero otherwise.
func (s *CajaService) Cerrar(ctx context.Context, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CajaResponse, error) {
	var caja *model.Caja

	err := runTx(ctx, s.cajas.DB(), func(tx *gorm.DB) error {
		var err error
		caja, err = s.cajas.FindAbiertaTx(tx)
		if err != nil {
			if isNotFound(err) {
				return ErrCajaNoAbierta
			}
			return err
		}

		ventasTotal, err := s.cajas.SumVentasTx(tx, caja.ID)
		if err != nil {
			return err
		}

		sistema := caja.MontoInicial.Add(ventasTotal)
		diferencia := decimal.Zero
		if req.MontoDeclarado != nil {
			diferencia = req.MontoDeclarado.Sub(sistema)
		}

		ahora := time.Now()
		caja.Estado = model.CajaCerrada
		caja.FechaCierre = &ahora
		caja.UsuarioCierreID = &usuarioID
		caja.MontoSistema = &sistema
		caja.MontoFinal = &sistema
		caja.MontoDeclarado = req.MontoDeclarado
		caja.Diferencia = &diferencia
		caja.NotasCierre = req.Notas

		return s.cajas.UpdateTx(tx, caja)
	})
	if err != nil {
		return nil, err
	}

	caja.UsuarioCierre = s.cargarUsuario(ctx, usuarioID)
	resp := ToCajaResponse(caja, false)
	return &resp, nil
}

// Controlar marks a closed session as audited. Only closed sessions
// qualify; the state machine never moves backwards.
func (s *CajaService) Controlar(ctx context.Context, usuarioID, cajaID uuid.UUID) (*dto.CajaResponse, error) {
	caja, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if caja.Estado != model.CajaCerrada {
		return nil, ErrCajaNoCerrada
	}

	ahora := time.Now()
	caja.Estado = model.CajaControlada
	caja.FechaControl = &ahora
	caja.UsuarioControlID = &usuarioID

	if err := s.cajas.Update(ctx, caja); err != nil {
		return nil, err
	}

	caja.UsuarioControl = s.cargarUsuario(ctx, usuarioID)
	resp := ToCajaResponse(caja, false)
	return &resp, nil
}

func (s *CajaService) Historial(ctx context.Context, f dto.CajaFilter) (*dto.CajaListResponse, error) {
	cajas, total, err := s.cajas.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CajaResponse, 0, len(cajas))
	for i := range cajas {
		data = append(data, ToCajaResponse(&cajas[i], false))
	}
	return &dto.CajaListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *CajaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error) {
	caja, err := s.cajas.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := ToCajaResponse(caja, true)
	return &resp, nil
}

// ReportePDF renders the closing report and returns the file path.
func (s *CajaService) ReportePDF(ctx context.Context, id uuid.UUID) (string, error) {
	caja, err := s.cajas.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return infra.GenerateCajaReportPDF(caja, s.pdfStorage)
}

// ToCajaResponse builds the API projection for a register session. The
// sales list is included only when conVentas is set; totals always are.
func ToCajaResponse(c *model.Caja, conVentas bool) dto.CajaResponse {
	resp := dto.CajaResponse{
		ID:             c.ID.String(),
		FechaApertura:  c.FechaApertura.Format(time.RFC3339),
		MontoInicial:   c.MontoInicial,
		MontoFinal:     c.MontoFinal,
		MontoSistema:   c.MontoSistema,
		MontoDeclarado: c.MontoDeclarado,
		Diferencia:     c.Diferencia,
		Estado:         c.Estado,
		NotasApertura:  c.NotasApertura,
		NotasCierre:    c.NotasCierre,
	}
	if c.FechaCierre != nil {
		s := c.FechaCierre.Format(time.RFC3339)
		resp.FechaCierre = &s
	}
	if c.FechaControl != nil {
		s := c.FechaControl.Format(time.RFC3339)
		resp.FechaControl = &s
	}
	if c.UsuarioApertura != nil {
		u := ToUsuarioResponse(c.UsuarioApertura)
		resp.UsuarioApertura = &u
	}
	if c.UsuarioCierre != nil {
		u := ToUsuarioResponse(c.UsuarioCierre)
		resp.UsuarioCierre = &u
	}
	if c.UsuarioControl != nil {
		u := ToUsuarioResponse(c.UsuarioControl)
		resp.UsuarioControl = &u
	}

	total := decimal.Zero
	for i := range c.Ventas {
		total = total.Add(c.Ventas[i].Total)
		if conVentas {
			resp.Ventas = append(resp.Ventas, ToVentaResponse(&c.Ventas[i]))
		}
	}
	resp.VentasTotal = total
	resp.VentasCantidad = len(c.Ventas)
	return resp
}
