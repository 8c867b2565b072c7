package service

import (
	"context"
	"time"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/model"
	"github.com/dmbruno/Ananda/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. DB() returns nil so runTx executes the
// closure directly without a real transaction.

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (f *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.usuarios[u.ID] = u
	return nil
}

func (f *fakeUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range f.usuarios {
		if u.Email == email && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := f.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range f.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range f.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	f.usuarios[u.ID] = u
	return nil
}

func (f *fakeUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := f.usuarios[id]; ok {
		u.Activo = false
		now := time.Now()
		u.FechaEliminacion = &now
	}
	return nil
}

func (f *fakeUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := f.usuarios[id]; ok {
		u.Activo = true
		u.FechaEliminacion = nil
	}
	return nil
}

type fakeClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (f *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.clientes[c.ID] = c
	return nil
}

func (f *fakeClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := f.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeClienteRepo) List(_ context.Context) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range f.clientes {
		if c.Activo {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeClienteRepo) ListAll(_ context.Context) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range f.clientes {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClienteRepo) ListCumplesDelMes(_ context.Context, month time.Month) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range f.clientes {
		if c.Activo && c.FechaNacimiento != nil && c.FechaNacimiento.Month() == month {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	f.clientes[c.ID] = c
	return nil
}

func (f *fakeClienteRepo) MarcarSaludo(_ context.Context, id uuid.UUID, cuando time.Time) error {
	if c, ok := f.clientes[id]; ok {
		c.UltimoSaludo = &cuando
	}
	return nil
}

func (f *fakeClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := f.clientes[id]; ok {
		c.Activo = false
	}
	return nil
}

func (f *fakeClienteRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if c, ok := f.clientes[id]; ok {
		c.Activo = true
	}
	return nil
}

type fakeCategoriaRepo struct {
	categorias    map[uuid.UUID]*model.Categoria
	subcategorias map[uuid.UUID]*model.Subcategoria
}

func newFakeCategoriaRepo() *fakeCategoriaRepo {
	return &fakeCategoriaRepo{
		categorias:    make(map[uuid.UUID]*model.Categoria),
		subcategorias: make(map[uuid.UUID]*model.Subcategoria),
	}
}

func (f *fakeCategoriaRepo) Crear(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.categorias[c.ID] = c
	return nil
}

func (f *fakeCategoriaRepo) Listar(_ context.Context, incluirInactivas bool) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range f.categorias {
		if incluirInactivas || c.Activo {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategoriaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := f.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCategoriaRepo) Actualizar(_ context.Context, c *model.Categoria) error {
	f.categorias[c.ID] = c
	return nil
}

func (f *fakeCategoriaRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if c, ok := f.categorias[id]; ok {
		c.Activo = false
	}
	return nil
}

func (f *fakeCategoriaRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if c, ok := f.categorias[id]; ok {
		c.Activo = true
	}
	return nil
}

func (f *fakeCategoriaRepo) CrearSubcategoria(_ context.Context, s *model.Subcategoria) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.subcategorias[s.ID] = s
	return nil
}

func (f *fakeCategoriaRepo) ListarSubcategorias(_ context.Context, categoriaID *uuid.UUID) ([]model.Subcategoria, error) {
	var out []model.Subcategoria
	for _, s := range f.subcategorias {
		if !s.Activo {
			continue
		}
		if categoriaID != nil && s.CategoriaID != *categoriaID {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeCategoriaRepo) ObtenerSubcategoria(_ context.Context, id uuid.UUID) (*model.Subcategoria, error) {
	s, ok := f.subcategorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeCategoriaRepo) ActualizarSubcategoria(_ context.Context, s *model.Subcategoria) error {
	f.subcategorias[s.ID] = s
	return nil
}

func (f *fakeCategoriaRepo) DesactivarSubcategoria(_ context.Context, id uuid.UUID) error {
	if s, ok := f.subcategorias[id]; ok {
		s.Activo = false
	}
	return nil
}

type fakeProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (f *fakeProductoRepo) DB() *gorm.DB { return nil }

func (f *fakeProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for _, existing := range f.productos {
		if existing.Codigo == p.Codigo {
			return gorm.ErrDuplicatedKey
		}
	}
	f.productos[p.ID] = p
	return nil
}

func (f *fakeProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := f.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range f.productos {
		if p.Codigo == codigo && p.Activo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range f.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductoRepo) ListStockBajo(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range f.productos {
		if p.Activo && p.StockActual <= p.StockMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductoRepo) Update(_ context.Context, p *model.Producto) error {
	f.productos[p.ID] = p
	return nil
}

func (f *fakeProductoRepo) UpdateImagen(_ context.Context, id uuid.UUID, imagenURL string) error {
	if p, ok := f.productos[id]; ok {
		p.ImagenURL = &imagenURL
	}
	return nil
}

func (f *fakeProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := f.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (f *fakeProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := f.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (f *fakeProductoRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) (int64, error) {
	p, ok := f.productos[id]
	if !ok || p.StockActual < cantidad {
		return 0, nil
	}
	p.StockActual -= cantidad
	return 1, nil
}

func (f *fakeProductoRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	if p, ok := f.productos[id]; ok {
		p.StockActual += cantidad
	}
	return nil
}

func (f *fakeProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := f.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProductoRepo) ListForAjusteTx(_ *gorm.DB, alcance string, categoriaID, subcategoriaID *uuid.UUID, ids []uuid.UUID) ([]model.Producto, error) {
	idSet := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	var out []model.Producto
	for _, p := range f.productos {
		if !p.Activo {
			continue
		}
		switch alcance {
		case "categoria":
			if categoriaID == nil || p.CategoriaID != *categoriaID {
				continue
			}
		case "subcategoria":
			if subcategoriaID == nil || p.SubcategoriaID == nil || *p.SubcategoriaID != *subcategoriaID {
				continue
			}
		case "productos_especificos":
			if _, ok := idSet[p.ID]; !ok {
				continue
			}
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductoRepo) UpdatePrecioTx(_ *gorm.DB, id uuid.UUID, precio decimal.Decimal) error {
	if p, ok := f.productos[id]; ok {
		p.PrecioVenta = precio
	}
	return nil
}

type fakeVentaRepo struct {
	ventas     map[uuid.UUID]*model.Venta
	totalesDia []repository.DiaTotal
}

func newFakeVentaRepo() *fakeVentaRepo {
	return &fakeVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (f *fakeVentaRepo) DB() *gorm.DB { return nil }

func (f *fakeVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Detalles {
		if v.Detalles[i].ID == uuid.Nil {
			v.Detalles[i].ID = uuid.New()
		}
		v.Detalles[i].VentaID = v.ID
	}
	f.ventas[v.ID] = v
	return nil
}

func (f *fakeVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := f.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (f *fakeVentaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	v, ok := f.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (f *fakeVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range f.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (f *fakeVentaRepo) UpdateTx(_ *gorm.DB, v *model.Venta) error {
	f.ventas[v.ID] = v
	return nil
}

func (f *fakeVentaRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(f.ventas, id)
	return nil
}

func (f *fakeVentaRepo) TotalesPorDia(_ context.Context, _, _ time.Time) ([]repository.DiaTotal, error) {
	return f.totalesDia, nil
}

func (f *fakeVentaRepo) ListInconsistencias(_ context.Context) ([]repository.FilaInconsistencia, error) {
	return nil, nil
}

type fakeCajaRepo struct {
	cajas map[uuid.UUID]*model.Caja
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{cajas: make(map[uuid.UUID]*model.Caja)}
}

func (f *fakeCajaRepo) DB() *gorm.DB { return nil }

func (f *fakeCajaRepo) Create(_ context.Context, c *model.Caja) error {
	for _, existing := range f.cajas {
		if existing.Estado == model.CajaAbierta {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.cajas[c.ID] = c
	return nil
}

func (f *fakeCajaRepo) FindAbierta(_ context.Context) (*model.Caja, error) {
	for _, c := range f.cajas {
		if c.Estado == model.CajaAbierta {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCajaRepo) FindAbiertaTx(_ *gorm.DB) (*model.Caja, error) {
	return f.FindAbierta(context.Background())
}

func (f *fakeCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caja, error) {
	c, ok := f.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCajaRepo) List(_ context.Context, _ dto.CajaFilter) ([]model.Caja, int64, error) {
	var out []model.Caja
	for _, c := range f.cajas {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCajaRepo) Update(_ context.Context, c *model.Caja) error {
	f.cajas[c.ID] = c
	return nil
}

func (f *fakeCajaRepo) UpdateTx(_ *gorm.DB, c *model.Caja) error {
	f.cajas[c.ID] = c
	return nil
}

func (f *fakeCajaRepo) SumVentasTx(_ *gorm.DB, cajaID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, c := range f.cajas {
		if c.ID != cajaID {
			continue
		}
		for _, v := range c.Ventas {
			total = total.Add(v.Total)
		}
	}
	return total, nil
}

type fakeHistorialRepo struct {
	registros []model.HistorialPrecio
}

func (f *fakeHistorialRepo) CreateBatchTx(_ *gorm.DB, regs []model.HistorialPrecio) error {
	f.registros = append(f.registros, regs...)
	return nil
}

func (f *fakeHistorialRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.HistorialPrecio, error) {
	var out []model.HistorialPrecio
	for _, r := range f.registros {
		if r.ProductoID == productoID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (f *fakeMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	f.movimientos = append(f.movimientos, *m)
	return nil
}

func (f *fakeMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID, _ int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, m := range f.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeMailQueue struct {
	resets  []string
	changes []string
	err     error
}

func (f *fakeMailQueue) EnqueuePasswordReset(_ context.Context, to, _, resetURL string) error {
	if f.err != nil {
		return f.err
	}
	f.resets = append(f.resets, to+"|"+resetURL)
	return nil
}

func (f *fakeMailQueue) EnqueuePasswordChanged(_ context.Context, to, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.changes = append(f.changes, to)
	return nil
}
