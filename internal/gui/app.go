// Package gui is the desktop front end: upload the diagnostic reports, read
// the dashboard, chat with the AI coach.
package gui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/jylim/leadership-coach/internal/analysis"
	"github.com/jylim/leadership-coach/internal/coach"
	"github.com/jylim/leadership-coach/internal/config"
	"github.com/jylim/leadership-coach/internal/export"
	"github.com/jylim/leadership-coach/internal/ingestion"
	"github.com/jylim/leadership-coach/internal/models"
	"github.com/jylim/leadership-coach/internal/survey"
	"go.uber.org/zap"
)

// App represents the main GUI application.
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	config     *config.Config
	analyzer   *analysis.Analyzer
	streamer   coach.Streamer
	logger     *zap.Logger
	ctx        context.Context
	cancelFunc context.CancelFunc

	// UI Components
	leadershipPathEntry *widget.Entry
	oeiPathEntry        *widget.Entry
	workbookPathEntry   *widget.Entry
	leaderEntry         *widget.Entry
	analyzeBtn          *widget.Button
	cancelBtn           *widget.Button
	progressBar         *widget.ProgressBar
	progressLabel       *widget.Label

	summaryLabel    *widget.Label
	fallbackLabel   *widget.Label
	competencyTable *widget.Table
	gapTable        *widget.Table
	commentsLabel   *widget.Label
	exportBtn       *widget.Button

	chatHistory *widget.Entry
	chatEntry   *widget.Entry
	sendBtn     *widget.Button

	report  *models.Report
	session *coach.Session
}

// NewApp creates a new GUI application. streamer may be nil; the coaching
// tab then shows a disabled notice while analysis keeps working.
func NewApp(analyzer *analysis.Analyzer, streamer coach.Streamer, cfg *config.Config, logger *zap.Logger) *App {
	a := app.New()
	w := a.NewWindow("AI 리더십 코칭")
	w.Resize(fyne.NewSize(1000, 700))

	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	guiApp := &App{
		fyneApp:    a,
		mainWindow: w,
		config:     cfg,
		analyzer:   analyzer,
		streamer:   streamer,
		logger:     logger,
	}

	cfg.ApplyToEnv()
	guiApp.setupUI()

	return guiApp
}

// Run starts the GUI application.
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
}

// setupUI initializes all UI components.
func (a *App) setupUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("분석", a.createAnalyzeTab()),
		container.NewTabItem("대시보드", a.createDashboardTab()),
		container.NewTabItem("AI 코칭", a.createCoachTab()),
		container.NewTabItem("Settings", a.createSettingsTab()),
	)

	a.mainWindow.SetContent(tabs)
}

// createAnalyzeTab builds the upload-and-analyze tab.
func (a *App) createAnalyzeTab() fyne.CanvasObject {
	a.leadershipPathEntry = widget.NewEntry()
	a.leadershipPathEntry.SetPlaceHolder("리더십 진단 보고서 (PDF/TXT)")

	a.oeiPathEntry = widget.NewEntry()
	a.oeiPathEntry.SetPlaceHolder("조직효과성(OEI) 보고서 (PDF/TXT)")

	a.workbookPathEntry = widget.NewEntry()
	a.workbookPathEntry.SetPlaceHolder("다년도 설문 워크북 (.xlsx, 선택)")

	a.leaderEntry = widget.NewEntry()
	a.leaderEntry.SetPlaceHolder("워크북 분석 시 리더 이름")

	fileSection := container.NewVBox(
		widget.NewLabel("진단 파일"),
		widget.NewForm(
			widget.NewFormItem("리더십 보고서", container.NewBorder(nil, nil, nil, a.browseButton(a.leadershipPathEntry), a.leadershipPathEntry)),
			widget.NewFormItem("OEI 보고서", container.NewBorder(nil, nil, nil, a.browseButton(a.oeiPathEntry), a.oeiPathEntry)),
			widget.NewFormItem("설문 워크북", container.NewBorder(nil, nil, nil, a.browseButton(a.workbookPathEntry), a.workbookPathEntry)),
			widget.NewFormItem("리더 이름", a.leaderEntry),
		),
	)

	a.progressBar = widget.NewProgressBar()
	a.progressLabel = widget.NewLabel("Ready")
	a.analyzeBtn = widget.NewButton("분석 시작", a.handleAnalyze)
	a.cancelBtn = widget.NewButton("취소", a.handleCancel)
	a.cancelBtn.Disable()

	progressSection := container.NewVBox(
		a.progressLabel,
		a.progressBar,
		container.NewHBox(a.analyzeBtn, a.cancelBtn),
	)

	return container.NewVScroll(container.NewVBox(
		fileSection,
		widget.NewSeparator(),
		progressSection,
	))
}

func (a *App) browseButton(target *widget.Entry) *widget.Button {
	return widget.NewButton("Browse...", func() {
		dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err == nil && uc != nil {
				target.SetText(uc.URI().Path())
				uc.Close()
			}
		}, a.mainWindow)
	})
}

// createDashboardTab builds the analyzed-report view.
func (a *App) createDashboardTab() fyne.CanvasObject {
	a.summaryLabel = widget.NewLabel("분석 결과가 없습니다. 분석 탭에서 보고서를 업로드하세요.")
	a.fallbackLabel = widget.NewLabel("")

	a.competencyTable = widget.NewTable(
		func() (int, int) {
			if a.report == nil {
				return 1, 3
			}
			return len(a.report.CompetencyScores) + 1, 3
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.TableCellID, cell fyne.CanvasObject) {
			label := cell.(*widget.Label)
			if id.Row == 0 {
				headers := []string{"역량 항목", "본인", "구성원"}
				label.SetText(headers[id.Col])
				label.TextStyle = fyne.TextStyle{Bold: true}
				return
			}
			if a.report == nil || id.Row-1 >= len(a.report.CompetencyScores) {
				return
			}
			score := a.report.CompetencyScores[id.Row-1]
			switch id.Col {
			case 0:
				label.SetText(score.Category)
			case 1:
				label.SetText(scoreText(score.Self))
			case 2:
				label.SetText(scoreText(score.Group))
			}
		},
	)
	a.competencyTable.SetColumnWidth(0, 220)
	a.competencyTable.SetColumnWidth(1, 80)
	a.competencyTable.SetColumnWidth(2, 80)

	a.gapTable = widget.NewTable(
		func() (int, int) {
			if a.report == nil {
				return 1, 4
			}
			return len(a.report.Gaps) + 1, 4
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(id widget.TableCellID, cell fyne.CanvasObject) {
			label := cell.(*widget.Label)
			if id.Row == 0 {
				headers := []string{"항목", "본인", "타인", "유형"}
				label.SetText(headers[id.Col])
				label.TextStyle = fyne.TextStyle{Bold: true}
				return
			}
			if a.report == nil || id.Row-1 >= len(a.report.Gaps) {
				return
			}
			gap := a.report.Gaps[id.Row-1]
			switch id.Col {
			case 0:
				label.SetText(gap.Category)
			case 1:
				label.SetText(fmt.Sprintf("%.1f", gap.Self))
			case 2:
				label.SetText(fmt.Sprintf("%.1f", gap.Other))
			case 3:
				if gap.Type == models.Underestimation {
					label.SetText("본인이 낮게 평가")
				} else {
					label.SetText("본인이 높게 평가")
				}
			}
		},
	)
	a.gapTable.SetColumnWidth(0, 220)
	a.gapTable.SetColumnWidth(1, 80)
	a.gapTable.SetColumnWidth(2, 80)
	a.gapTable.SetColumnWidth(3, 160)

	a.commentsLabel = widget.NewLabel("")
	a.commentsLabel.Wrapping = fyne.TextWrapWord

	a.exportBtn = widget.NewButton("Excel로 내보내기", a.handleExport)
	a.exportBtn.Disable()

	return container.NewVScroll(container.NewVBox(
		a.summaryLabel,
		a.fallbackLabel,
		widget.NewSeparator(),
		widget.NewLabel("리더십 역량"),
		container.NewScroll(a.competencyTable),
		widget.NewSeparator(),
		widget.NewLabel("인식 차이 (Blind Spot)"),
		container.NewScroll(a.gapTable),
		widget.NewSeparator(),
		widget.NewLabel("구성원 의견"),
		a.commentsLabel,
		a.exportBtn,
	))
}

// createCoachTab builds the chat tab.
func (a *App) createCoachTab() fyne.CanvasObject {
	a.chatHistory = widget.NewMultiLineEntry()
	a.chatHistory.Wrapping = fyne.TextWrapWord
	a.chatHistory.Disable()

	a.chatEntry = widget.NewEntry()
	a.chatEntry.SetPlaceHolder("코치에게 보낼 메시지를 입력하세요...")
	a.chatEntry.OnSubmitted = func(string) { a.handleSend() }

	a.sendBtn = widget.NewButton("보내기", a.handleSend)

	if a.streamer == nil {
		a.chatHistory.SetText("AI 코칭이 비활성화되어 있습니다.\nSettings에서 Google Cloud Project를 설정한 뒤 다시 실행하세요.")
		a.chatEntry.Disable()
		a.sendBtn.Disable()
	}

	return container.NewBorder(
		nil,
		container.NewBorder(nil, nil, nil, a.sendBtn, a.chatEntry),
		nil, nil,
		container.NewScroll(a.chatHistory),
	)
}

// createSettingsTab creates the settings tab.
func (a *App) createSettingsTab() fyne.CanvasObject {
	projectEntry := widget.NewEntry()
	projectEntry.SetText(a.config.GoogleCloudProject)

	locationEntry := widget.NewEntry()
	locationEntry.SetText(a.config.GoogleCloudLocation)

	modelEntry := widget.NewEntry()
	modelEntry.SetText(a.config.ModelName)

	googleCredsEntry := widget.NewEntry()
	googleCredsEntry.SetText(a.config.GoogleCredentialsPath)

	gmailCredsEntry := widget.NewEntry()
	gmailCredsEntry.SetText(a.config.GmailCredentialsPath)

	form := widget.NewForm(
		widget.NewFormItem("Google Cloud Project", projectEntry),
		widget.NewFormItem("Google Cloud Location", locationEntry),
		widget.NewFormItem("Model", modelEntry),
		widget.NewFormItem("Google Credentials", container.NewBorder(nil, nil, nil, a.browseButton(googleCredsEntry), googleCredsEntry)),
		widget.NewFormItem("Gmail Credentials", container.NewBorder(nil, nil, nil, a.browseButton(gmailCredsEntry), gmailCredsEntry)),
	)

	saveBtn := widget.NewButton("Save Settings", func() {
		a.config.GoogleCloudProject = projectEntry.Text
		a.config.GoogleCloudLocation = locationEntry.Text
		a.config.ModelName = modelEntry.Text
		a.config.GoogleCredentialsPath = googleCredsEntry.Text
		a.config.GmailCredentialsPath = gmailCredsEntry.Text

		if err := a.config.Save(); err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}

		a.config.ApplyToEnv()

		dialog.ShowInformation("Success", "Settings saved successfully", a.mainWindow)
	})

	testBtn := widget.NewButton("Test Connection", func() {
		if err := a.config.Validate(); err != nil {
			dialog.ShowError(fmt.Errorf("validation failed: %w", err), a.mainWindow)
			return
		}
		dialog.ShowInformation("Success", "Configuration is valid", a.mainWindow)
	})

	return container.NewVBox(
		form,
		container.NewHBox(saveBtn, testBtn),
	)
}

// handleAnalyze runs the analysis pipeline over the selected files.
func (a *App) handleAnalyze() {
	workbookPath := strings.TrimSpace(a.workbookPathEntry.Text)
	leadershipPath := strings.TrimSpace(a.leadershipPathEntry.Text)
	oeiPath := strings.TrimSpace(a.oeiPathEntry.Text)

	if workbookPath == "" && leadershipPath == "" && oeiPath == "" {
		dialog.ShowError(fmt.Errorf("분석할 파일을 선택해주세요"), a.mainWindow)
		return
	}
	if workbookPath != "" && strings.TrimSpace(a.leaderEntry.Text) == "" {
		dialog.ShowError(fmt.Errorf("워크북 분석에는 리더 이름이 필요합니다"), a.mainWindow)
		return
	}

	a.analyzeBtn.Disable()
	a.cancelBtn.Enable()
	a.exportBtn.Disable()

	a.ctx, a.cancelFunc = context.WithCancel(context.Background())

	a.analyzer.SetProgressCallback(func(current, total int, message string) {
		fyne.Do(func() {
			a.progressBar.SetValue(float64(current) / float64(total))
			a.progressLabel.SetText(message)
		})
	})

	go func() {
		report, err := a.runAnalysis(a.ctx, workbookPath, leadershipPath, oeiPath)

		// Wrap ALL UI updates in fyne.Do()
		fyne.Do(func() {
			a.analyzeBtn.Enable()
			a.cancelBtn.Disable()

			if err != nil {
				if err == context.Canceled {
					a.progressLabel.SetText("분석이 취소되었습니다")
				} else {
					a.progressLabel.SetText("Error: " + err.Error())
					dialog.ShowError(err, a.mainWindow)
				}
				return
			}

			a.report = report
			a.session = nil
			a.refreshDashboard()
			a.seedCoachChat()
			a.exportBtn.Enable()

			a.progressLabel.SetText("분석 완료")
			fyne.CurrentApp().SendNotification(&fyne.Notification{
				Title:   "분석 완료",
				Content: "대시보드에서 결과를 확인하세요",
			})
		})
	}()
}

// runAnalysis picks the pipeline for the selected inputs.
func (a *App) runAnalysis(ctx context.Context, workbookPath, leadershipPath, oeiPath string) (*models.Report, error) {
	if workbookPath != "" {
		table, err := survey.LoadWorkbook(workbookPath)
		if err != nil {
			return nil, err
		}
		return a.analyzer.AnalyzeWorkbook(ctx, table, "리더명", strings.TrimSpace(a.leaderEntry.Text))
	}

	var leadershipText, oeiText string
	var err error
	if leadershipPath != "" {
		if leadershipText, err = ingestion.ReadDocumentText(leadershipPath); err != nil {
			return nil, err
		}
	}
	if oeiPath != "" {
		if oeiText, err = ingestion.ReadDocumentText(oeiPath); err != nil {
			return nil, err
		}
	}

	return a.analyzer.AnalyzeDocuments(ctx, leadershipText, oeiText)
}

// refreshDashboard re-renders the dashboard from the current report.
func (a *App) refreshDashboard() {
	if a.report == nil {
		return
	}

	summary := fmt.Sprintf("리더십 종합 %.2f / 조직효과성 종합 %.2f", a.report.LeadershipSummary, a.report.OrgSummary)
	if a.report.LeaderName != "" {
		summary = a.report.LeaderName + " — " + summary
	}
	a.summaryLabel.SetText(summary)

	if a.report.Fallback {
		a.fallbackLabel.SetText("⚠ 보고서에서 점수를 추출하지 못해 데모 데이터가 표시됩니다.")
	} else {
		a.fallbackLabel.SetText("")
	}

	a.competencyTable.Refresh()
	a.gapTable.Refresh()
	a.commentsLabel.SetText(commentSummary(a.report))
}

// seedCoachChat starts a fresh coaching session for the new report.
func (a *App) seedCoachChat() {
	if a.streamer == nil || a.report == nil {
		return
	}
	a.session = coach.NewSession(a.streamer, a.report, a.logger)
	a.renderChat()
}

func (a *App) renderChat() {
	if a.session == nil {
		return
	}

	var b strings.Builder
	for _, msg := range a.session.Messages() {
		if msg.Role == models.RoleAssistant {
			b.WriteString("코치: ")
		} else {
			b.WriteString("나: ")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}
	a.chatHistory.SetText(b.String())
	a.chatHistory.CursorRow = len(strings.Split(a.chatHistory.Text, "\n"))
}

// handleSend runs one coaching chat turn.
func (a *App) handleSend() {
	if a.session == nil {
		dialog.ShowError(fmt.Errorf("먼저 분석을 실행해주세요"), a.mainWindow)
		return
	}

	text := strings.TrimSpace(a.chatEntry.Text)
	if text == "" {
		return
	}

	a.chatEntry.SetText("")
	a.sendBtn.Disable()

	go func() {
		_, err := a.session.Send(context.Background(), text, nil)

		fyne.Do(func() {
			a.sendBtn.Enable()
			if err != nil {
				dialog.ShowError(err, a.mainWindow)
				return
			}
			a.renderChat()
		})
	}()
}

// handleCancel handles cancellation of a running analysis.
func (a *App) handleCancel() {
	if a.cancelFunc != nil {
		a.cancelFunc()
		a.progressLabel.SetText("취소 중...")
	}
}

// handleExport saves the report as an Excel workbook.
func (a *App) handleExport() {
	if a.report == nil {
		dialog.ShowError(fmt.Errorf("내보낼 분석 결과가 없습니다"), a.mainWindow)
		return
	}

	dialog.ShowFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if uc == nil {
			return // User canceled
		}
		defer uc.Close()

		outputPath := uc.URI().Path()
		if err := export.ExportToExcel(a.report, outputPath); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export: %w", err), a.mainWindow)
			return
		}

		dialog.ShowInformation("Success", "리포트를 저장했습니다: "+filepath.Base(outputPath), a.mainWindow)
	}, a.mainWindow)
}

func scoreText(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

// commentSummary flattens the comment sections for the dashboard label.
func commentSummary(report *models.Report) string {
	sections := []struct {
		section models.CommentSection
		label   string
	}{
		{models.SectionStrength, "강점"},
		{models.SectionWeakness, "보완점"},
		{models.SectionBoss, "상사 응답"},
		{models.SectionMembers, "구성원 응답"},
	}

	var b strings.Builder
	for _, s := range sections {
		block, ok := report.Comments[s.section]
		if !ok || len(block.Lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "[%s] %s\n", s.label, strings.Join(block.Lines, " · "))
	}
	if b.Len() == 0 {
		return "추출된 의견이 없습니다."
	}
	return strings.TrimRight(b.String(), "\n")
}
