package modifier

import (
	"context"
	"strings"
)

const updateCompleteStatement = "PRINT N'Update complete.';"

const trackVersionTemplate = `-- Track DACPAC version
IF OBJECT_ID(N'[dbo].[__SSDTLifecycle]', N'U') IS NULL
BEGIN
    CREATE TABLE [dbo].[__SSDTLifecycle]
    (
        [Id]            INT IDENTITY(1, 1) NOT NULL CONSTRAINT [PK___SSDTLifecycle] PRIMARY KEY,
        [DacName]       NVARCHAR(128)      NOT NULL,
        [DacVersion]    NVARCHAR(64)       NOT NULL,
        [DeployedAtUtc] DATETIME2          NOT NULL CONSTRAINT [DF___SSDTLifecycle_DeployedAtUtc] DEFAULT (SYSUTCDATETIME())
    );
END
GO
INSERT INTO [dbo].[__SSDTLifecycle] ([DacName], [DacVersion]) VALUES (N'{NAME}', N'{VERSION}');
GO
`

// TrackDacpacVersionModifier records the deployed version in a tracking table.
// The statements go right before the final "Update complete." message when the script has one.
type TrackDacpacVersionModifier struct{}

func (*TrackDacpacVersionModifier) Modify(_ context.Context, in Input) (string, bool) {
	if in.Project == nil || in.Project.Properties.SqlTargetName == "" || in.NewVersion == "" {
		return in.Script, false
	}

	block := strings.NewReplacer(
		"{NAME}", quoteLiteral(in.Project.Properties.SqlTargetName),
		"{VERSION}", quoteLiteral(in.NewVersion),
	).Replace(trackVersionTemplate)

	idx := strings.LastIndex(in.Script, updateCompleteStatement)
	if idx < 0 {
		script := in.Script
		if script != "" && !strings.HasSuffix(script, "\n") {
			script += "\n"
		}

		return script + block, true
	}

	return in.Script[:idx] + block + "\n" + in.Script[idx:], true
}

func quoteLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

var _ ScriptModifier = (*TrackDacpacVersionModifier)(nil)
